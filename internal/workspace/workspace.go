// Package workspace provides durable per-workspace file storage. Runs
// only ever copy out of a workspace; nothing in the engine mutates one.
package workspace

// Store is the narrow interface the run orchestration engine consumes.
// Every filename crossing this boundary must already be sanitized.
type Store interface {
	Create() (string, error)
	List(workspaceId string) ([]string, error)
	Read(workspaceId string, filename string) ([]byte, error)
	Write(workspaceId string, filename string, content []byte) error
	Delete(workspaceId string, filename string) error
}
