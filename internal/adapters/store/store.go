package store

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v3"

	"github.com/omerlefaruk/CasareRPA-sub001/internal/domain"
)

const workflowKeyPrefix = "workflow:"

// Store is a badger-backed workflow library. It persists structural
// snapshots keyed by workflow name; execution state never touches disk.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// Open opens (or creates) a store at the given directory.
func Open(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	return open(opts, logger)
}

// OpenInMemory opens a store backed by memory only; useful in tests and
// short-lived tooling.
func OpenInMemory(logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	return open(opts, logger)
}

func open(opts badger.Options, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, domain.Error{
			Type:    domain.ErrorTypeInternal,
			Message: "failed to open workflow store: " + err.Error(),
			Details: map[string]interface{}{"dir": opts.Dir},
		}
	}

	return &Store{
		db:     db,
		logger: logger.With("component", "workflow-store"),
	}, nil
}

func (s *Store) Save(ctx context.Context, workflow *domain.Workflow) error {
	if workflow == nil {
		return domain.ErrInvalidInput
	}
	if workflow.Metadata.Name == "" {
		return domain.Error{
			Type:    domain.ErrorTypeValidation,
			Message: "workflow name must not be empty",
		}
	}
	if err := s.guard(ctx); err != nil {
		return err
	}

	data, err := workflow.MarshalSnapshot()
	if err != nil {
		return err
	}

	key := workflowKey(workflow.Metadata.Name)
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return domain.Error{
			Type:    domain.ErrorTypeInternal,
			Message: "failed to save workflow: " + err.Error(),
			Details: map[string]interface{}{"workflow": workflow.Metadata.Name},
		}
	}

	s.logger.Debug("workflow saved",
		"workflow", workflow.Metadata.Name,
		"bytes", len(data))
	return nil
}

func (s *Store) Load(ctx context.Context, name string) (*domain.Workflow, error) {
	if err := s.guard(ctx); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(workflowKey(name)))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, domain.ErrWorkflowNotFound
		}
		return nil, domain.Error{
			Type:    domain.ErrorTypeInternal,
			Message: "failed to load workflow: " + err.Error(),
			Details: map[string]interface{}{"workflow": name},
		}
	}

	return domain.UnmarshalWorkflow(data)
}

func (s *Store) Delete(ctx context.Context, name string) error {
	if err := s.guard(ctx); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(workflowKey(name)))
	})
	if err != nil {
		return domain.Error{
			Type:    domain.ErrorTypeInternal,
			Message: "failed to delete workflow: " + err.Error(),
			Details: map[string]interface{}{"workflow": name},
		}
	}

	s.logger.Debug("workflow deleted", "workflow", name)
	return nil
}

// List returns the names of every stored workflow.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := s.guard(ctx); err != nil {
		return nil, err
	}

	var names []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(workflowKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			names = append(names, strings.TrimPrefix(key, workflowKeyPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, domain.Error{
			Type:    domain.ErrorTypeInternal,
			Message: "failed to list workflows: " + err.Error(),
		}
	}
	return names, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *Store) guard(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrStoreClosed
	}
	return nil
}

func workflowKey(name string) string {
	return workflowKeyPrefix + name
}
