package serializer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/clarity-project/core/internal/web/security"
)

// GroupDeclaration is one declared serialization group: a bare name, or a
// name with a configuration map that may carry an access_control expression.
type GroupDeclaration struct {
	Name   string
	Config map[string]any // nil for bare declarations
}

// ParseGroupDeclarations normalizes the raw groups entry of a declared
// context into group declarations. Accepted shapes:
//
//	"book:read"
//	["book:read", "book:write"]
//	[{"admin:read": {"access_control": "'ROLE_ADMIN' in roles"}}, "book:read"]
//	{"admin:read": {"access_control": "..."}}
//
// A string config value is shorthand for {"access_control": value}.
func ParseGroupDeclarations(raw any) []GroupDeclaration {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return []GroupDeclaration{{Name: v}}
	case []string:
		decls := make([]GroupDeclaration, 0, len(v))
		for _, name := range v {
			decls = append(decls, GroupDeclaration{Name: name})
		}
		return decls
	case []GroupDeclaration:
		return v
	case []any:
		var decls []GroupDeclaration
		for _, item := range v {
			decls = append(decls, ParseGroupDeclarations(item)...)
		}
		return decls
	case map[string]any:
		var decls []GroupDeclaration
		for name, config := range v {
			decls = append(decls, declarationFromConfig(name, config))
		}
		return decls
	default:
		return nil
	}
}

func declarationFromConfig(name string, config any) GroupDeclaration {
	switch c := config.(type) {
	case nil:
		return GroupDeclaration{Name: name}
	case string:
		return GroupDeclaration{Name: name, Config: map[string]any{"access_control": c}}
	case map[string]any:
		return GroupDeclaration{Name: name, Config: c}
	default:
		// Unusable configuration shape; treated as configured without
		// access_control, which the filter excludes.
		return GroupDeclaration{Name: name, Config: map[string]any{}}
	}
}

// SecurityIntegration bundles the collaborators the group filter evaluates
// access_control expressions against. A nil integration (or one missing the
// token provider or evaluator) makes any access-controlled group a fatal
// configuration fault in interactive mode.
type SecurityIntegration struct {
	Tokens    security.TokenProvider
	Evaluator security.ExpressionEvaluator
	Trust     security.TrustResolver
	Authz     security.AuthorizationChecker
	Hierarchy security.RoleHierarchy
}

// GroupFilter reduces group declarations to the names active for the
// current request and principal.
type GroupFilter struct {
	mode        ExecutionMode
	integration *SecurityIntegration
	logger      *zap.Logger
}

// NewGroupFilter creates a group filter. integration may be nil when no
// access-controlled groups are declared anywhere; logger may be nil.
func NewGroupFilter(mode ExecutionMode, integration *SecurityIntegration, logger *zap.Logger) *GroupFilter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GroupFilter{mode: mode, integration: integration, logger: logger}
}

// Filter returns the names of the declarations active for the current
// request, in input order. Bare names are always active; configured names
// without access_control never are; access-controlled names are active in
// batch mode or when their expression evaluates to true against the
// current security variables.
func (f *GroupFilter) Filter(ctx context.Context, decls []GroupDeclaration, resourceClass string) ([]string, error) {
	included := make([]string, 0, len(decls))
	for _, decl := range decls {
		if decl.Config == nil {
			included = append(included, decl.Name)
			continue
		}

		raw, ok := decl.Config["access_control"]
		if !ok {
			continue
		}

		if f.mode == ModeBatch {
			included = append(included, decl.Name)
			continue
		}

		expression, _ := raw.(string)
		granted, err := f.evaluate(ctx, expression, decl.Name, resourceClass)
		if err != nil {
			return nil, err
		}
		if granted {
			included = append(included, decl.Name)
		}
	}

	f.logger.Debug("filtered serialization groups",
		zap.String("resource", resourceClass),
		zap.Int("declared", len(decls)),
		zap.Strings("active", included))
	return included, nil
}

func (f *GroupFilter) evaluate(ctx context.Context, expression, group, resourceClass string) (bool, error) {
	if f.integration == nil || f.integration.Tokens == nil || f.integration.Evaluator == nil {
		return false, fmt.Errorf("%w: group %q on resource %q declares access_control",
			ErrSecurityIntegration, group, resourceClass)
	}

	principal := f.integration.Tokens.CurrentPrincipal(ctx)
	if principal == nil {
		return false, fmt.Errorf("%w: no authenticated principal for group %q on resource %q",
			ErrSecurityIntegration, group, resourceClass)
	}

	return f.integration.Evaluator.Evaluate(expression, f.securityVariables(principal))
}
