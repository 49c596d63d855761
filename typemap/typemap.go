// Package typemap holds the binding generator's type knowledge: the host type
// registry, foreign type storage and the conversion graph connecting them.
//
// Everything is addressed by integer handles into append-only arenas. The
// registry and graph only know each other's handles, so merging host records
// never invalidates edges or rules.
package typemap

import (
	"go/ast"
	"iter"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/logger"
)

// DefaultCacheSize is the resolution cache capacity when none is configured.
const DefaultCacheSize = 256

// Config tunes a TypeMap.
type Config struct {
	// CacheSize bounds the resolution cache. 0 disables caching; negative
	// means DefaultCacheSize.
	CacheSize int
}

// DefaultConfig returns the default TypeMap configuration.
func DefaultConfig() *Config {
	return &Config{CacheSize: DefaultCacheSize}
}

type resolveKey struct {
	host    HostType
	foreign ForeignType
	dir     Direction
}

// TypeMap is the facade the parser, discovery and code generator share.
// Not safe for concurrent use.
type TypeMap struct {
	graph   *Graph
	hosts   *HostTypes
	foreign *ForeignTypes
	cache   *lru.Cache[resolveKey, *Resolution]
	logger  *zap.SugaredLogger
}

// New creates an empty TypeMap with default configuration.
func New(log *zap.SugaredLogger) *TypeMap {
	tm, err := NewWithConfig(log, nil)
	if err != nil {
		// default size is positive, lru.New cannot fail
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "default resolution cache"))
	}
	return tm
}

// NewWithConfig creates an empty TypeMap. Pass nil config to use defaults,
// nil logger to use the global one.
func NewWithConfig(log *zap.SugaredLogger, cfg *Config) (*TypeMap, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = logger.Logger
	}
	size := cfg.CacheSize
	if size < 0 {
		size = DefaultCacheSize
	}

	g := NewGraph()
	tm := &TypeMap{
		graph:   g,
		hosts:   NewHostTypes(g),
		foreign: NewForeignTypes(),
		logger:  log.Named("typemap"),
	}
	if size > 0 {
		cache, err := lru.New[resolveKey, *Resolution](size)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create resolution cache of size %d", size)
		}
		tm.cache = cache
	}
	return tm, nil
}

// Hosts exposes the host registry for reading. Mutate through the TypeMap so
// cached resolutions are invalidated.
func (tm *TypeMap) Hosts() *HostTypes {
	return tm.hosts
}

// Graph exposes the conversion graph for reading.
func (tm *TypeMap) Graph() *Graph {
	return tm.graph
}

// InternHost interns a host type expression (see HostTypes.Intern).
func (tm *TypeMap) InternHost(expr ast.Expr, caps ...string) HostType {
	tm.invalidate()
	return tm.hosts.Intern(expr, NormalizeExpr(expr), caps...)
}

// InternHostString parses src as a Go type expression and interns it.
func (tm *TypeMap) InternHostString(src string, caps ...string) (HostType, error) {
	expr, name, err := NormalizeString(src)
	if err != nil {
		return 0, err
	}
	tm.invalidate()
	return tm.hosts.Intern(expr, name, caps...), nil
}

// InternHostDistinct allocates a new host record even if the name is known.
func (tm *TypeMap) InternHostDistinct(expr ast.Expr, caps ...string) HostType {
	tm.invalidate()
	return tm.hosts.InternDistinct(expr, NormalizeExpr(expr), caps...)
}

// AnnotateHost records a capability of a host type.
func (tm *TypeMap) AnnotateHost(ht HostType, capability string) {
	tm.invalidate()
	tm.hosts.Annotate(ht, capability)
	tm.logger.Debugw("capability annotated",
		logger.FieldHostType, tm.hosts.Name(ht),
		logger.FieldCapability, capability)
}

// AddConversion adds a direct host-to-host conversion edge.
func (tm *TypeMap) AddConversion(from, to HostType, code string) {
	tm.invalidate()
	tm.graph.AddEdge(tm.hosts.Node(from), tm.hosts.Node(to), code)
	tm.logger.Debugw("conversion added",
		logger.FieldHostType, tm.hosts.Name(from),
		"to", tm.hosts.Name(to))
}

// DeclareStrict declares a foreign type bound to host in both directions.
func (tm *TypeMap) DeclareStrict(tn TypeName, host HostType) (ForeignType, error) {
	tm.invalidate()
	ft, err := tm.foreign.DeclareStrict(tn, tm.hosts.Node(host))
	if err != nil {
		return ft, err
	}
	tm.logger.Debugw("foreign type declared",
		logger.FieldForeignType, tn.Name,
		logger.FieldHostType, tm.hosts.Name(host))
	return ft, nil
}

// FindOrCreate returns the foreign type named tn, creating a placeholder.
func (tm *TypeMap) FindOrCreate(tn TypeName) ForeignType {
	tm.invalidate()
	return tm.foreign.FindOrCreate(tn)
}

// SetRule attaches a conversion rule to one direction of ft.
func (tm *TypeMap) SetRule(ft ForeignType, dir Direction, rule *ConversionRule) error {
	tm.invalidate()
	return tm.foreign.SetRule(ft, dir, rule)
}

// Foreign returns a copy of the record of ft.
func (tm *TypeMap) Foreign(ft ForeignType) ForeignTypeRecord {
	rec := *tm.foreign.At(ft)
	rec.IntoHost = rec.IntoHost.clone()
	rec.FromHost = rec.FromHost.clone()
	return rec
}

// LookupForeign finds a foreign type by name.
func (tm *TypeMap) LookupForeign(name string) (ForeignType, bool) {
	return tm.foreign.Lookup(name)
}

// ForeignTypes iterates copies of every foreign record in creation order.
func (tm *TypeMap) ForeignTypes() iter.Seq2[ForeignType, ForeignTypeRecord] {
	return func(yield func(ForeignType, ForeignTypeRecord) bool) {
		for ft := range tm.foreign.All() {
			if !yield(ft, tm.Foreign(ft)) {
				return
			}
		}
	}
}

// ForeignCount returns the number of foreign records.
func (tm *TypeMap) ForeignCount() int {
	return tm.foreign.Len()
}

// DumpForeign returns the debug listing of foreign types.
func (tm *TypeMap) DumpForeign() string {
	return tm.foreign.String()
}

func (tm *TypeMap) invalidate() {
	if tm.cache != nil && tm.cache.Len() > 0 {
		tm.cache.Purge()
	}
}
