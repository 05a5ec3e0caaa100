package commands

import (
	"context"
	"fmt"
	"iter"
	"os"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/yefei/zenorm-generate/internal/config"
	"github.com/yefei/zenorm-generate/internal/source"
	"github.com/yefei/zenorm-generate/internal/schema"
)

// Mock implementations shared by the command tests
type mockConfigLoader struct {
	mock.Mock
}

func (m *mockConfigLoader) Load(path string) (*config.Config, string, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*config.Config), args.String(1), args.Error(2)
}

type mockSourceOpener struct {
	mock.Mock
}

func (m *mockSourceOpener) Open(cfg *config.Config) (source.Source, error) {
	args := m.Called(cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(source.Source), args.Error(1)
}

type mockSignalNotifier struct {
	mock.Mock
}

func (m *mockSignalNotifier) Notify(c chan<- os.Signal, sig ...os.Signal) {
	m.Called(c, sig)
}

func (m *mockSignalNotifier) Stop(c chan<- os.Signal) {
	m.Called(c)
}

type mockOutput struct {
	mu    sync.Mutex
	lines []string
}

func (m *mockOutput) Printf(format string, a ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, fmt.Sprintf(format, a...))
}

func (m *mockOutput) Println(a ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, fmt.Sprintln(a...))
}

func (m *mockOutput) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return strings.Join(m.lines, "")
}

// memorySource serves a fixed list of tables, optionally failing at the end
type memorySource struct {
	tables []schema.Table
	err    error
	closed bool
}

func (s *memorySource) Tables(ctx context.Context) iter.Seq2[schema.Table, error] {
	return func(yield func(schema.Table, error) bool) {
		for _, t := range s.tables {
			if !yield(t, nil) {
				return
			}
		}
		if s.err != nil {
			yield(schema.Table{}, s.err)
		}
	}
}

func (s *memorySource) Close() error {
	s.closed = true
	return nil
}

func idTable(name string) schema.Table {
	return schema.Table{
		Name:    name,
		Columns: []schema.Column{{PrimaryKey: true, Name: "id", Type: "number", Required: true}},
	}
}
