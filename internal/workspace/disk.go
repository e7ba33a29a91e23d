package workspace

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/programme-lv/runner/internal/paths"
)

// DiskStore keeps each workspace as a flat directory under a single root.
type DiskStore struct {
	root string
}

var _ Store = (*DiskStore)(nil)

func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create workspace root: %w", err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) Create() (string, error) {
	id := uuid.NewString()
	dir, err := paths.Resolve(s.root, id)
	if err != nil {
		return "", err
	}
	if err := os.Mkdir(dir, 0755); err != nil {
		return "", fmt.Errorf("create workspace %s: %w", id, err)
	}
	return id, nil
}

func (s *DiskStore) List(workspaceId string) ([]string, error) {
	dir, err := s.workspaceDir(workspaceId)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list workspace %s: %w", workspaceId, err)
	}
	names := []string{}
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (s *DiskStore) Read(workspaceId string, filename string) ([]byte, error) {
	path, err := s.filePath(workspaceId, filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s from workspace %s: %w", filename, workspaceId, err)
	}
	return data, nil
}

func (s *DiskStore) Write(workspaceId string, filename string, content []byte) error {
	dir, err := s.workspaceDir(workspaceId)
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("workspace %s does not exist: %w", workspaceId, err)
	}
	path, err := paths.Resolve(dir, filename)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("write %s to workspace %s: %w", filename, workspaceId, err)
	}
	return nil
}

func (s *DiskStore) Delete(workspaceId string, filename string) error {
	path, err := s.filePath(workspaceId, filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete %s from workspace %s: %w", filename, workspaceId, err)
	}
	return nil
}

func (s *DiskStore) workspaceDir(workspaceId string) (string, error) {
	return paths.Resolve(s.root, workspaceId)
}

func (s *DiskStore) filePath(workspaceId string, filename string) (string, error) {
	dir, err := s.workspaceDir(workspaceId)
	if err != nil {
		return "", err
	}
	return paths.Resolve(dir, filename)
}
