package config

import (
	"fmt"
	"strings"
)

// QueryBinding is the parsed form of the bindQuery option
type QueryBinding struct {
	Export string
	Module string
}

// ParseBindQuery splits "<exportName>@<modulePath>". The module path may itself
// start with '@' (scoped packages), so only the first '@' separates.
func ParseBindQuery(s string) (QueryBinding, error) {
	export, module, ok := strings.Cut(s, "@")
	export = strings.TrimSpace(export)
	module = strings.TrimSpace(module)
	if !ok || export == "" || module == "" {
		return QueryBinding{}, fmt.Errorf("invalid bindQuery %q: want <exportName>@<modulePath>", s)
	}
	return QueryBinding{Export: export, Module: module}, nil
}

// ModuleDeclaration targets one ambient augmentation of the Repositories type
type ModuleDeclaration struct {
	Module string
	// Container is the dotted path of the interface being augmented
	Container string
	Member    string
}

// ParseModulePath splits "module.Container.member". The first segment is the
// module, the last the member, everything between the container path.
func ParseModulePath(s string) (ModuleDeclaration, error) {
	parts := strings.Split(s, ".")
	if len(parts) < 3 {
		return ModuleDeclaration{}, fmt.Errorf("invalid module path %q: want <module>.<Container>.<member>", s)
	}
	for _, p := range parts {
		if p == "" {
			return ModuleDeclaration{}, fmt.Errorf("invalid module path %q: empty segment", s)
		}
	}
	return ModuleDeclaration{
		Module:    parts[0],
		Container: strings.Join(parts[1:len(parts)-1], "."),
		Member:    parts[len(parts)-1],
	}, nil
}
