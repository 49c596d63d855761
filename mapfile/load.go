// Package mapfile reads typemap files (YAML) into a TypeMap. Every problem is
// reported as a located diagnostic; a file is read to the end so one run
// shows all of them.
package mapfile

import (
	"bytes"
	"io"
	"os"
	"regexp"
	"strconv"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/teranos/bindgen/diag"
	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/typemap"
)

// Requirement is a capability gate declared in a typemap file.
type Requirement struct {
	Host         typemap.HostType
	Capabilities typemap.RequiredCapabilities
	Span         diag.Span
}

// Result summarizes what one file contributed.
type Result struct {
	Source       diag.SourceID
	Name         string
	Version      *semver.Version
	Hosts        int
	Conversions  int
	Foreign      []typemap.ForeignType
	Requirements []Requirement
}

// Loader applies typemap files to one TypeMap. Sources are registered so
// diagnostics can quote them.
type Loader struct {
	tm      *typemap.TypeMap
	sources *diag.SourceRegistry
	logger  *zap.SugaredLogger
}

// NewLoader creates a loader. Pass nil logger to use the global one.
func NewLoader(tm *typemap.TypeMap, sources *diag.SourceRegistry, log *zap.SugaredLogger) *Loader {
	if log == nil {
		log = logger.Logger
	}
	if sources == nil {
		sources = diag.NewSourceRegistry()
	}
	return &Loader{tm: tm, sources: sources, logger: log.Named("mapfile")}
}

// Sources returns the registry diagnostics refer to.
func (l *Loader) Sources() *diag.SourceRegistry {
	return l.sources
}

// LoadFile reads and applies one typemap file. I/O failures are plain
// errors; content problems come back as a *diag.List.
func (l *Loader) LoadFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read typemap %s", path)
	}
	return l.Load(path, data)
}

// LoadFiles applies files in order and accumulates every diagnostic. Reading
// stops at the first I/O failure.
func (l *Loader) LoadFiles(paths []string) ([]*Result, error) {
	var (
		results []*Result
		diags   diag.List
	)
	for _, p := range paths {
		res, err := l.LoadFile(p)
		if err != nil {
			var list *diag.List
			if !errors.As(err, &list) {
				return results, err
			}
			diags.Add(list)
		}
		if res != nil {
			results = append(results, res)
		}
	}
	return results, diags.Err()
}

// Load applies typemap data registered under name.
func (l *Loader) Load(name string, data []byte) (*Result, error) {
	src := l.sources.Register(diag.SourceCode{Name: name, Code: string(data)})
	a := &applier{tm: l.tm, src: src, res: &Result{Source: src, Name: name}}

	var raw rawFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && err != io.EOF {
		a.decodeError(err)
		l.logProblems(name, &a.diags)
		return nil, a.diags.Err()
	}

	v, err := CheckVersion(scalar(&raw.Version))
	if err != nil {
		a.errorf(&raw.Version, "%v", err)
		l.logProblems(name, &a.diags)
		return nil, a.diags.Err()
	}
	a.res.Version = v

	// the strict decode above succeeded, so this one cannot fail
	_ = yaml.Unmarshal(data, &a.doc)

	for i := range raw.Host {
		a.host(&raw.Host[i], entry(&a.doc, "host", i))
	}
	for i := range raw.Conversions {
		a.conversion(&raw.Conversions[i], entry(&a.doc, "conversions", i))
	}
	for i := range raw.Foreign {
		a.foreign(&raw.Foreign[i], entry(&a.doc, "foreign", i))
	}
	for i := range raw.Requires {
		a.require(&raw.Requires[i], entry(&a.doc, "requires", i))
	}

	l.logger.Infow("Typemap loaded",
		logger.FieldFile, name,
		logger.FieldVersion, v.String(),
		logger.FieldCount, len(a.res.Foreign),
		"diagnostics", a.diags.Len())
	l.logProblems(name, &a.diags)
	return a.res, a.diags.Err()
}

func (l *Loader) logProblems(name string, diags *diag.List) {
	for _, d := range diags.Errors() {
		p := d.Primary()
		l.logger.Debugw("Typemap problem",
			logger.FieldFile, name,
			logger.FieldLine, p.Span.Start.Line,
			logger.FieldError, p.Message)
	}
}

type applier struct {
	tm    *typemap.TypeMap
	src   diag.SourceID
	res   *Result
	doc   yaml.Node
	diags diag.List
}

func (a *applier) errorf(n *yaml.Node, format string, args ...interface{}) {
	a.diags.Add(diag.New(diag.ErrInvalidDeclaration, spanOf(a.src, n), format, args...))
}

// errorfAt reports at n, or at the enclosing entry when n is absent.
func (a *applier) errorfAt(n, enclosing *yaml.Node, format string, args ...interface{}) {
	a.diags.Add(diag.New(diag.ErrInvalidDeclaration, spanOf(a.src, n, enclosing), format, args...))
}

var yamlLine = regexp.MustCompile(`^line (\d+): (.*)$`)

// decodeError turns yaml.v3 errors into diagnostics, one per reported line.
func (a *applier) decodeError(err error) {
	var te *yaml.TypeError
	msgs := []string{err.Error()}
	if errors.As(err, &te) {
		msgs = te.Errors
	}
	for _, m := range msgs {
		m = trimYAMLPrefix(m)
		if sub := yamlLine.FindStringSubmatch(m); sub != nil {
			line, _ := strconv.Atoi(sub[1])
			a.diags.Add(diag.New(diag.ErrInvalidDeclaration, diag.SpanAt(a.src, line, 1, 1), "%s", sub[2]))
			continue
		}
		a.diags.Add(diag.New(diag.ErrInvalidDeclaration, diag.SpanAt(a.src, 1, 1, 1), "%s", m))
	}
}

func trimYAMLPrefix(m string) string {
	const prefix = "yaml: "
	if len(m) > len(prefix) && m[:len(prefix)] == prefix {
		return m[len(prefix):]
	}
	return m
}

// hostType parses and interns the type written in n. enclosing locates the
// report when n is absent.
func (a *applier) hostType(n, enclosing *yaml.Node, what string) (typemap.HostType, bool) {
	if !present(n) || scalar(n) == "" {
		a.errorfAt(n, enclosing, "missing %s type", what)
		return 0, false
	}
	ht, err := a.tm.InternHostString(scalar(n))
	if err != nil {
		a.errorf(n, "%v", err)
		return 0, false
	}
	return ht, true
}

func (a *applier) host(h *rawHost, at *yaml.Node) {
	ht, ok := a.hostType(&h.Type, at, "host")
	if !ok {
		return
	}
	for i := range h.Implements {
		c := &h.Implements[i]
		if scalar(c) == "" {
			a.errorf(c, "empty capability name")
			continue
		}
		a.tm.AnnotateHost(ht, typemap.ParseCapabilityPath(scalar(c)).Ident())
	}
	a.res.Hosts++
}

func (a *applier) conversion(c *rawConversion, at *yaml.Node) {
	from, okFrom := a.hostType(&c.From, at, "source")
	to, okTo := a.hostType(&c.To, at, "target")
	if !present(&c.Code) || scalar(&c.Code) == "" {
		a.errorfAt(&c.Code, at, "conversion from %s to %s has no code", scalar(&c.From), scalar(&c.To))
		return
	}
	if !okFrom || !okTo {
		return
	}
	a.tm.AddConversion(from, to, c.Code.Value)
	a.res.Conversions++
}

func (a *applier) foreign(f *rawForeign, at *yaml.Node) {
	name := scalar(&f.Name)
	if name == "" {
		a.errorfAt(&f.Name, at, "foreign type without a name")
		return
	}
	tn := typemap.NewTypeName(name, spanOf(a.src, &f.Name))

	if present(&f.Host) {
		if f.IntoHost != nil || f.FromHost != nil {
			a.errorf(&f.Host, "foreign type %s: host cannot be combined with into_host or from_host", name)
			return
		}
		ht, ok := a.hostType(&f.Host, at, "host")
		if !ok {
			return
		}
		ft, err := a.tm.DeclareStrict(tn, ht)
		if err != nil {
			a.diags.Add(err)
			return
		}
		a.res.Foreign = append(a.res.Foreign, ft)
		return
	}

	ft := a.tm.FindOrCreate(tn)
	a.rule(ft, typemap.IntoHost, f.IntoHost, at)
	a.rule(ft, typemap.FromHost, f.FromHost, at)
	a.res.Foreign = append(a.res.Foreign, ft)
}

// rule attaches r for dir; at is the foreign entry holding it, whose keys are
// the direction names.
func (a *applier) rule(ft typemap.ForeignType, dir typemap.Direction, r *rawRule, at *yaml.Node) {
	if r == nil {
		return
	}
	ht, ok := a.hostType(&r.Host, keyNode(at, dir.String()), "host")
	if !ok {
		return
	}
	node := a.tm.Hosts().Node(ht)
	rule := typemap.Direct(node)

	if im := r.Intermediate; im != nil {
		imKey := keyNode(valueNode(at, dir.String()), "intermediate")
		it, ok := a.hostType(&im.Type, imKey, "intermediate")
		if !ok {
			return
		}
		if scalar(&im.Code) == "" {
			a.errorfAt(&im.Code, &im.Type, "intermediate %s has no code", scalar(&im.Type))
			return
		}
		rule = typemap.Via(node, a.tm.Hosts().Node(it), im.Code.Value)
	}

	if err := a.tm.SetRule(ft, dir, rule.At(spanOf(a.src, &r.Host))); err != nil {
		a.diags.Add(err)
	}
}

func (a *applier) require(r *rawRequire, at *yaml.Node) {
	ht, ok := a.hostType(&r.Type, at, "required")
	if !ok {
		return
	}
	var req typemap.RequiredCapabilities
	for i := range r.Capabilities {
		c := &r.Capabilities[i]
		if scalar(c) == "" {
			a.errorf(c, "empty capability name")
			continue
		}
		req.Insert(typemap.ParseCapabilityPath(scalar(c)))
	}
	a.res.Requirements = append(a.res.Requirements, Requirement{
		Host:         ht,
		Capabilities: req,
		Span:         spanOf(a.src, &r.Type),
	})
}
