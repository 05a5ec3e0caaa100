package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yefei/zenorm-generate/internal/codegen"
	"github.com/yefei/zenorm-generate/internal/config"
	"github.com/yefei/zenorm-generate/internal/schema"
)

func TestTablesCommand_Execute(t *testing.T) {
	loader := new(mockConfigLoader)
	loader.On("Load", "zenorm.json").Return(&config.Config{Filter: "^tmp_", Include: "^(tmp_|app_)"}, "/project/zenorm.json", nil)

	src := &memorySource{tables: []schema.Table{
		idTable("app_user"),
		idTable("tmp_cache"),
		{Name: "audit", Columns: []schema.Column{{Name: "msg", Type: "string"}}},
	}}
	sources := new(mockSourceOpener)
	sources.On("Open", mock.AnythingOfType("*config.Config")).Return(src, nil)
	out := &mockOutput{}

	cmd := &TablesCommand{loader: loader, sources: sources, output: out}
	require.NoError(t, cmd.Execute(context.Background(), "zenorm.json"))

	assert.Equal(t, []string{
		"  ✓ app_user (1 columns, pk id: number)\n",
		"  ✗ tmp_cache (matched filter)\n",
		"  ✗ audit (not matched by include)\n",
		"1 of 3 tables would be generated\n",
	}, out.lines)
	assert.True(t, src.closed)
}

func TestTablesCommand_Execute_Errors(t *testing.T) {
	t.Run("bad pattern", func(t *testing.T) {
		loader := new(mockConfigLoader)
		loader.On("Load", "").Return(&config.Config{Include: "[a-"}, "/project/zenorm.json", nil)
		sources := new(mockSourceOpener)

		cmd := &TablesCommand{loader: loader, sources: sources, output: &mockOutput{}}
		err := cmd.Execute(context.Background(), "")
		require.Error(t, err)
		assert.True(t, codegen.IsConfigError(err))
		sources.AssertNotCalled(t, "Open", mock.Anything)
	})

	t.Run("stream", func(t *testing.T) {
		loader := new(mockConfigLoader)
		loader.On("Load", "").Return(&config.Config{}, "/project/zenorm.json", nil)
		sources := new(mockSourceOpener)
		sources.On("Open", mock.Anything).Return(&memorySource{err: errors.New("timeout")}, nil)

		cmd := &TablesCommand{loader: loader, sources: sources, output: &mockOutput{}}
		err := cmd.Execute(context.Background(), "")
		require.Error(t, err)
		assert.True(t, codegen.IsStreamError(err))
	})
}
