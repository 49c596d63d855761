// Package discover finds which host types implement which capabilities by
// type-checking Go packages, and records the findings in a TypeMap.
package discover

import (
	"context"
	"go/types"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/typemap"
)

// Options selects what to scan and which capabilities to look for.
type Options struct {
	// Dir is the working directory for package loading
	Dir string
	// Patterns are package patterns to scan ("./...", "bytes")
	Patterns []string
	// Capabilities are interface names ("io.Writer") or the predeclared
	// "comparable" and "error"
	Capabilities []string
	// Relative drops the package qualifier from type names ("Buffer"
	// instead of "bytes.Buffer")
	Relative bool
}

// Finding records that a host type satisfies a capability.
type Finding struct {
	Type       string
	Capability string
}

type capability struct {
	path  typemap.CapabilityPath
	iface *types.Interface // nil for comparable
}

// Discover loads opts.Patterns and reports every named type (and pointer to
// it) that satisfies one of opts.Capabilities. Findings are sorted by type
// then capability.
func Discover(ctx context.Context, opts Options, log *zap.SugaredLogger) ([]Finding, error) {
	if log == nil {
		log = logger.Logger
	}
	log = log.Named("discover")

	if len(opts.Patterns) == 0 {
		return nil, errors.NewInvalidInputError("no packages to scan")
	}

	paths := make([]typemap.CapabilityPath, 0, len(opts.Capabilities))
	toLoad := append([]string(nil), opts.Patterns...)
	// packages loaded only to look up capability interfaces are not scanned
	lookupOnly := make(map[string]bool)
	for _, c := range opts.Capabilities {
		p := typemap.ParseCapabilityPath(c)
		paths = append(paths, p)
		if q := p.Qualifier(); q != "" && !contains(opts.Patterns, q) {
			toLoad = append(toLoad, q)
			lookupOnly[q] = true
		}
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     opts.Dir,
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedImports |
			packages.NeedDeps | packages.NeedSyntax | packages.NeedTypesInfo,
	}
	roots, err := packages.Load(cfg, dedupe(toLoad)...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load packages %v", opts.Patterns)
	}

	byPath := make(map[string]*packages.Package)
	var loadErrs []packages.Error
	packages.Visit(roots, nil, func(p *packages.Package) {
		byPath[p.PkgPath] = p
		loadErrs = append(loadErrs, p.Errors...)
	})
	if len(loadErrs) > 0 {
		return nil, errors.Newf("package errors: %v", loadErrs)
	}

	caps, err := resolveCapabilities(paths, byPath)
	if err != nil {
		return nil, err
	}

	scanned := make(map[string]bool)
	var findings []Finding
	for _, root := range roots {
		if root.Types == nil || lookupOnly[root.PkgPath] || scanned[root.PkgPath] {
			continue
		}
		scanned[root.PkgPath] = true
		qual := qualifier(root.Types, opts.Relative)
		scope := root.Types.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || tn.IsAlias() {
				continue
			}
			named, ok := tn.Type().(*types.Named)
			if !ok || named.TypeParams().Len() > 0 {
				continue
			}
			findings = append(findings, check(named, caps, qual)...)
		}
		log.Debugw("package scanned",
			logger.FieldPackage, root.PkgPath,
			logger.FieldCount, len(findings))
	}

	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Type != findings[j].Type {
			return findings[i].Type < findings[j].Type
		}
		return findings[i].Capability < findings[j].Capability
	})
	log.Infow("Discovery finished",
		logger.FieldCount, len(findings),
		"packages", len(scanned))
	return findings, nil
}

// Apply interns every found type and annotates it with its capability.
func Apply(tm *typemap.TypeMap, findings []Finding) error {
	for _, f := range findings {
		if _, err := tm.InternHostString(f.Type, f.Capability); err != nil {
			return errors.Wrapf(err, "failed to record %s", f.Type)
		}
	}
	return nil
}

func check(named *types.Named, caps []capability, qual types.Qualifier) []Finding {
	var out []Finding
	candidates := []types.Type{named}
	if !types.IsInterface(named) {
		candidates = append(candidates, types.NewPointer(named))
	}
	for _, t := range candidates {
		for _, c := range caps {
			if c.satisfiedBy(t) {
				out = append(out, Finding{Type: types.TypeString(t, qual), Capability: c.path.Ident()})
			}
		}
	}
	return out
}

func (c capability) satisfiedBy(t types.Type) bool {
	if c.iface == nil {
		return types.Comparable(t)
	}
	return types.Implements(t, c.iface)
}

func resolveCapabilities(paths []typemap.CapabilityPath, byPath map[string]*packages.Package) ([]capability, error) {
	var out []capability
	for _, p := range paths {
		if p.Qualifier() == "" {
			switch p.Ident() {
			case "comparable":
				out = append(out, capability{path: p})
				continue
			case "error":
				iface := types.Universe.Lookup("error").Type().Underlying().(*types.Interface)
				out = append(out, capability{path: p, iface: iface})
				continue
			}
			return nil, errors.NewInvalidInputError("capability %q needs a package path (like io.Writer)", p)
		}

		pkg, ok := byPath[p.Qualifier()]
		if !ok || pkg.Types == nil {
			return nil, errors.NewNotFoundError("package %s for capability %s", p.Qualifier(), p)
		}
		obj, ok := pkg.Types.Scope().Lookup(p.Ident()).(*types.TypeName)
		if !ok {
			return nil, errors.NewNotFoundError("capability %s", p)
		}
		iface, ok := obj.Type().Underlying().(*types.Interface)
		if !ok {
			return nil, errors.NewInvalidInputError("capability %s is not an interface", p)
		}
		out = append(out, capability{path: p, iface: iface})
	}
	return out, nil
}

func qualifier(pkg *types.Package, relative bool) types.Qualifier {
	if relative {
		return types.RelativeTo(pkg)
	}
	return func(p *types.Package) string { return p.Name() }
}

func contains(list []string, s string) bool {
	for _, it := range list {
		if it == s {
			return true
		}
	}
	return false
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
