package typemap

import (
	"strings"

	"github.com/teranos/bindgen/diag"
	"github.com/teranos/bindgen/logger"
)

// StepKind tells a graph conversion from the intermediate hop of a rule.
type StepKind int

const (
	// StepConversion follows a host-to-host graph edge
	StepConversion StepKind = iota
	// StepIntermediate is the host <-> intermediate hop of a two-stage rule
	StepIntermediate
)

func (k StepKind) String() string {
	if k == StepIntermediate {
		return "intermediate"
	}
	return "conversion"
}

// Step is one hop of a resolved conversion.
type Step struct {
	From NodeIndex
	To   NodeIndex
	Code string
	Kind StepKind
}

// Resolution is how a value gets from host to foreign (or back). Steps run in
// order; Boundary is the node whose value crosses the language boundary.
type Resolution struct {
	Host      HostType
	Foreign   ForeignType
	Direction Direction
	Rule      ConversionRule
	Steps     []Step
	Boundary  NodeIndex
}

func (r *Resolution) clone() *Resolution {
	c := *r
	c.Rule = *r.Rule.clone()
	c.Steps = append([]Step(nil), r.Steps...)
	return &c
}

// Resolve finds how to convert between host and ft in dir.
//
// FromHost walks the graph from host to the rule's host node, then takes the
// intermediate hop if the rule has one. IntoHost runs the other way: the
// intermediate hop first, then the graph from the rule's host node to host.
// A missing rule or an unreachable host type is an ErrUnresolvedConversion
// diagnostic.
func (tm *TypeMap) Resolve(host HostType, ft ForeignType, dir Direction) (*Resolution, error) {
	key := resolveKey{host: host, foreign: ft, dir: dir}
	if tm.cache != nil {
		if res, ok := tm.cache.Get(key); ok {
			return res.clone(), nil
		}
	}

	res, err := tm.resolve(host, ft, dir)
	if err != nil {
		tm.logger.Debugw("No conversion path",
			logger.FieldHostType, tm.hosts.Name(host),
			logger.FieldForeignType, tm.foreign.At(ft).Name.Name,
			logger.FieldDirection, dir.String())
		return nil, err
	}

	fields := []interface{}{
		logger.FieldHostType, tm.hosts.Name(host),
		logger.FieldForeignType, tm.foreign.At(ft).Name.Name,
		logger.FieldDirection, dir.String(),
		logger.FieldNode, tm.NodeName(res.Boundary),
		logger.FieldSteps, len(res.Steps),
	}
	if im := res.Rule.Intermediate; im != nil {
		fields = append(fields, logger.FieldIntermediate, tm.NodeName(im.Node))
	}
	tm.logger.Debugw("conversion resolved", fields...)
	if tm.cache != nil {
		tm.cache.Add(key, res)
	}
	return res.clone(), nil
}

func (tm *TypeMap) resolve(host HostType, ft ForeignType, dir Direction) (*Resolution, error) {
	rec := tm.foreign.At(ft)
	hostNode := tm.hosts.Node(host)
	hostName := tm.hosts.Name(host)

	rule := rec.Rule(dir)
	if rule == nil {
		return nil, tm.unresolved(rec, hostName, dir).
			WithNote(rec.Name.Span, "type %s has no %s rule", rec.Name, dir)
	}

	res := &Resolution{
		Host:      host,
		Foreign:   ft,
		Direction: dir,
		Rule:      *rule.clone(),
		Boundary:  rule.HostNode,
	}

	var from, to NodeIndex
	if dir == FromHost {
		from, to = hostNode, rule.HostNode
	} else {
		from, to = rule.HostNode, hostNode
	}
	path, ok := tm.graph.FindPath(from, to)
	if !ok {
		return nil, tm.unresolved(rec, hostName, dir).
			WithNote(rule.Span, "type %s converts through %s, which does not reach %s",
				rec.Name, tm.nodeName(rule.HostNode), hostName)
	}

	graphSteps := make([]Step, 0, len(path))
	for _, e := range path {
		graphSteps = append(graphSteps, Step{From: e.From, To: e.To, Code: e.Code, Kind: StepConversion})
	}

	im := rule.Intermediate
	switch {
	case im == nil:
		res.Steps = graphSteps
	case dir == FromHost:
		res.Steps = append(graphSteps, Step{From: rule.HostNode, To: im.Node, Code: im.ConvCode, Kind: StepIntermediate})
		res.Boundary = im.Node
	default:
		res.Steps = append([]Step{{From: im.Node, To: rule.HostNode, Code: im.ConvCode, Kind: StepIntermediate}}, graphSteps...)
		res.Boundary = im.Node
	}
	return res, nil
}

func (tm *TypeMap) unresolved(rec *ForeignTypeRecord, hostName string, dir Direction) *diag.Error {
	if dir == FromHost {
		return diag.New(diag.ErrUnresolvedConversion, rec.Name.Span,
			"no conversion from %s to foreign type %s", hostName, rec.Name)
	}
	return diag.New(diag.ErrUnresolvedConversion, rec.Name.Span,
		"no conversion from foreign type %s to %s", rec.Name, hostName)
}

func (tm *TypeMap) nodeName(n NodeIndex) string {
	return tm.hosts.Name(tm.graph.Host(n))
}

// NodeName returns the host type name behind a graph node.
func (tm *TypeMap) NodeName(n NodeIndex) string {
	return tm.nodeName(n)
}

// RequireCapabilities checks that ht holds every capability in req. The
// diagnostic names the type and every missing capability, located at at.
func (tm *TypeMap) RequireCapabilities(ht HostType, req RequiredCapabilities, at diag.Span) error {
	missing := tm.hosts.Get(ht).Implements.Missing(req)
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, len(missing))
	for i, p := range missing {
		names[i] = p.String()
	}
	return diag.New(diag.ErrCapabilityMismatch, at,
		"type %s does not implement %s", tm.hosts.Name(ht), strings.Join(names, ", "))
}
