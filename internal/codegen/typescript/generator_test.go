package typescript

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yefei/zenorm-generate/internal/codegen/artifact"
	"github.com/yefei/zenorm-generate/internal/config"
	"github.com/yefei/zenorm-generate/internal/runheader"
	"github.com/yefei/zenorm-generate/internal/schema"
)

var testHeader = runheader.Header{
	Database:  "shop",
	CreatedAt: time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
	User:      "alice",
	Host:      "box",
}

func userAccount() schema.Table {
	return schema.Table{
		Name: "user_account",
		Columns: []schema.Column{
			{PrimaryKey: true, Name: "id", Type: "number", Required: true},
			{Name: "email", Type: "string", Required: true, Comment: []string{"user email"}},
		},
	}
}

func newGenerator(t *testing.T, cfg config.Config) *Generator {
	t.Helper()
	if cfg.OrmModule == "" {
		cfg.OrmModule = "zenorm"
	}
	g, err := NewGenerator(config.ApplyDefaults(&cfg))
	require.NoError(t, err)
	return g
}

func TestGenerator_Compile(t *testing.T) {
	g := newGenerator(t, config.Config{OrmModule: "zenorm"})

	block, model, stub := g.Compile(userAccount())

	assert.Equal(t, `export class UserAccountTable {
  static columns = ["id","email"];
  id!: number;
  /**
   * user email
   */
  email!: string;
}
`, block)

	assert.Equal(t, schema.Model{
		Table:          "user_account",
		Slug:           "user_account",
		TypeName:       "UserAccount",
		PrimaryKey:     "id",
		PrimaryKeyType: "number",
	}, model)

	assert.Equal(t, "user_account.ts", stub.Name)
	assert.Equal(t, artifact.CreateIfAbsent, stub.Policy)
	assert.Equal(t, `import { model } from 'zenorm';
import { UserAccountTable } from './_tables';

@model({
  pk: 'id',
  name: 'user_account',
})
export default class UserAccount extends UserAccountTable {
}
`, stub.Render())
}

func TestGenerator_CompileOptionalAndQuotedFields(t *testing.T) {
	g := newGenerator(t, config.Config{})

	block, _, _ := g.Compile(schema.Table{
		Name: "profile",
		Columns: []schema.Column{
			{Name: "nick", Type: "string"},
			{Name: "first name", Type: "string", Required: true},
		},
	})

	assert.Contains(t, block, "  nick?: string;\n")
	assert.Contains(t, block, "  'first name'!: string;\n")
}

func TestGenerator_CompileDefaultsPrimaryKey(t *testing.T) {
	g := newGenerator(t, config.Config{})

	_, model, stub := g.Compile(schema.Table{
		Name:    "event_log",
		Columns: []schema.Column{{Name: "message", Type: "string"}},
	})

	assert.Equal(t, "id", model.PrimaryKey)
	assert.Equal(t, "number", model.PrimaryKeyType)
	assert.Contains(t, stub.Render(), "pk: 'id',")
}

func TestGenerator_CompileRecordsPhysicalTable(t *testing.T) {
	g := newGenerator(t, config.Config{})

	_, model, stub := g.Compile(schema.Table{
		Name:    "UserAccount",
		Columns: []schema.Column{{PrimaryKey: true, Name: "uid", Type: "string", Required: true}},
	})

	assert.Equal(t, "user_account", model.Slug)
	assert.Equal(t, "user_account.ts", stub.Name)

	code := stub.Render()
	assert.Contains(t, code, "pk: 'uid',")
	assert.Contains(t, code, "name: 'user_account',")
	assert.Contains(t, code, "table: 'UserAccount',")
}

func TestGenerator_CompileWithGlobal(t *testing.T) {
	g := newGenerator(t, config.Config{GlobalFilename: "_global"})

	block, _, _ := g.Compile(userAccount())
	assert.True(t, strings.HasPrefix(block, "export class UserAccountTable extends _Global {"))

	tables := g.TablesFile(testHeader, []string{block}).Render()
	assert.Contains(t, tables, "import _Global from './_global';")

	global, ok := g.GlobalFile()
	require.True(t, ok)
	assert.Equal(t, "_global.ts", global.Name)
	assert.Equal(t, artifact.CreateIfAbsent, global.Policy)
	assert.Equal(t, "export default class Global {}\n", global.Render())
}

func TestGenerator_NoGlobal(t *testing.T) {
	g := newGenerator(t, config.Config{})

	_, ok := g.GlobalFile()
	assert.False(t, ok)

	tables := g.TablesFile(testHeader, nil).Render()
	assert.NotContains(t, tables, "_Global")
}

func TestGenerator_TablesFile(t *testing.T) {
	g := newGenerator(t, config.Config{})
	blockA := "export class ATable {\n}\n"
	blockB := "export class BTable {\n}\n"

	a := g.TablesFile(testHeader, []string{blockA, blockB})
	assert.Equal(t, "_tables.ts", a.Name)
	assert.Equal(t, artifact.AlwaysOverwrite, a.Policy)

	assert.Equal(t, `// Code generated by zenorm-generate. DO NOT EDIT.
// This file is rewritten every time the database structure is regenerated.
// create at: 2024-05-01 12:30:00
// create by: alice@box
// database: shop

export class ATable {
}

export class BTable {
}

`, a.Render())
}

func TestGenerator_RepositoriesFile(t *testing.T) {
	g := newGenerator(t, config.Config{OrmModule: "zenorm"})
	_, model, _ := g.Compile(userAccount())

	a := g.RepositoriesFile(testHeader, []schema.Model{model})
	assert.Equal(t, "_repositories.ts", a.Name)
	assert.Equal(t, artifact.AlwaysOverwrite, a.Policy)

	code := a.Render()
	assert.Contains(t, code, "import { createRepositoryQuery } from 'zenorm';\n")
	assert.Contains(t, code, "import _UserAccount from './user_account';\n")
	assert.Contains(t, code, `export class UserAccount extends _UserAccount {
  static query = createRepositoryQuery<UserAccount, number>(UserAccount);
}
`)
	assert.Equal(t, 1, strings.Count(code, "export class "))
	assert.NotContains(t, code, "Repositories")
	assert.NotContains(t, code, "repository")
}

func TestGenerator_RepositoriesKeepModelOrder(t *testing.T) {
	g := newGenerator(t, config.Config{})
	models := []schema.Model{
		{Slug: "zeta", TypeName: "Zeta", PrimaryKeyType: "number"},
		{Slug: "alpha", TypeName: "Alpha", PrimaryKeyType: "string"},
	}

	code := g.RepositoriesFile(testHeader, models).Render()
	assert.Less(t, strings.Index(code, "class Zeta "), strings.Index(code, "class Alpha "))
	assert.Contains(t, code, "createRepositoryQuery<Alpha, string>(Alpha)")
}

func TestGenerator_GenerateRepositories(t *testing.T) {
	g := newGenerator(t, config.Config{
		GenerateRepositories:         true,
		DeclareRepositoriesToModules: []string{"pkg.Container.slot"},
	})
	_, model, _ := g.Compile(userAccount())

	code := g.RepositoriesFile(testHeader, []schema.Model{model}).Render()

	assert.Contains(t, code, "import { QueryParam, createRepositoryQuery } from 'zenorm';")
	assert.Contains(t, code, `export class Repositories {
  constructor(private _query: QueryParam) {}
  get UserAccountRepository() { return UserAccount.query(this._query); }
}
`)
	assert.Equal(t, 1, strings.Count(code, "declare module "))
	assert.Contains(t, code, `declare module 'pkg' {
  interface Container {
    slot: Repositories;
  }
}
`)
}

func TestGenerator_NestedModuleDeclaration(t *testing.T) {
	g := newGenerator(t, config.Config{
		GenerateRepositories:         true,
		DeclareRepositoriesToModules: []string{"@zenweb/core.Core.Context.repositories", "koa.Context.repos"},
	})

	code := g.RepositoriesFile(testHeader, nil).Render()

	assert.Contains(t, code, `declare module '@zenweb/core' {
  namespace Core {
    interface Context {
      repositories: Repositories;
    }
  }
}
`)
	assert.Contains(t, code, `declare module 'koa' {
  interface Context {
    repos: Repositories;
  }
}
`)
}

func TestGenerator_BindQuery(t *testing.T) {
	g := newGenerator(t, config.Config{BindQuery: "pool@@app/db"})
	_, model, _ := g.Compile(userAccount())

	code := g.RepositoriesFile(testHeader, []schema.Model{model}).Render()

	assert.Contains(t, code, "import { Where, createRepositoryQuery } from 'zenorm';")
	assert.Contains(t, code, "import { pool } from '@app/db';")
	assert.Contains(t, code, "  static get repository() { return UserAccount.query(pool); }\n")
	assert.Contains(t, code, "  static find(where?: Where<UserAccount>) { return UserAccount.repository.find(where); }\n")
	assert.Contains(t, code, "  static findByKey(key: number) { return UserAccount.repository.findByKey(key); }\n")
	assert.Contains(t, code, "  static createAndGet(data: Partial<UserAccount>) { return UserAccount.repository.createAndGet(data); }\n")
	assert.Contains(t, code, "  save() { return UserAccount.repository.save(this); }\n")
	assert.Contains(t, code, "  update(data: Partial<UserAccount>) { return UserAccount.repository.update(this, data); }\n")
	assert.Contains(t, code, "  delete() { return UserAccount.repository.delete(this); }\n")

	for _, op := range []string{"find", "findByKey", "getByKey", "count", "exists", "create", "createAndGet"} {
		assert.Contains(t, code, "static "+op+"(")
	}
}

func TestGenerator_IndexFile(t *testing.T) {
	g := newGenerator(t, config.Config{TablesFilename: "tables", RepositoriesFilename: "repos"})

	a := g.IndexFile()
	assert.Equal(t, "index.ts", a.Name)
	assert.Equal(t, artifact.CreateIfAbsent, a.Policy)
	assert.Equal(t, "export * from './tables';\nexport * from './repos';\n", a.Render())
}

func TestNewGenerator_InvalidOptions(t *testing.T) {
	_, err := NewGenerator(&config.Config{BindQuery: "nomodule"})
	assert.Error(t, err)

	_, err = NewGenerator(&config.Config{DeclareRepositoriesToModules: []string{"pkg"}})
	assert.Error(t, err)
}

func TestGenerator_Metadata(t *testing.T) {
	g := newGenerator(t, config.Config{})
	assert.Equal(t, "typescript", g.Language())
	assert.Equal(t, ".ts", g.FileExtension())
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `'it\'s'`, quote("it's"))
	assert.Equal(t, `'a\\b'`, quote(`a\b`))
}
