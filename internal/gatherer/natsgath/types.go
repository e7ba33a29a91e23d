package natsgath

import (
	"github.com/nats-io/nats.go"
	"github.com/programme-lv/runner/internal/runner"
)

type natsGatherer struct {
	nc      *nats.Conn
	subject string
}

var _ runner.RunGatherer = (*natsGatherer)(nil)
