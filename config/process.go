package config

import (
	"log/slog"
	"strings"

	"github.com/mhollis/cfgexpr/lang"
	"github.com/mhollis/cfgexpr/log"
)

// TypeKey is the discriminator property naming the builder type of a
// grouped interim entry.
const TypeKey = "type"

// interimPrefix marks an entry that feeds the registry instead of the
// output tree.
const interimPrefix = "_"

// Builder assembles a typed domain value from the resolved properties
// of a grouped interim entry.
type Builder interface {
	Build(typeName string, props map[string]any) (any, error)
}

// Processor resolves sections against an owned [lang.Registry].
type Processor struct {
	reg       *lang.Registry
	builder   Builder
	ctx       lang.Context
	strKeys   map[string]bool
	carryOver bool
	log       log.Logger
}

// Option applies a configuration option to a Processor.
type Option func(*Processor)

// WithBuilder sets the builder used to assemble typed interim groups.
func WithBuilder(b Builder) Option {
	return func(p *Processor) { p.builder = b }
}

// WithContext sets the expression context supplying reserved symbols.
func WithContext(ctx lang.Context) Option {
	return func(p *Processor) { p.ctx = ctx }
}

// WithStringKeys names keys whose values are copied verbatim instead of
// parsed. A key matches if its final dotted segment equals one of the
// given names.
func WithStringKeys(keys ...string) Option {
	return func(p *Processor) {
		for _, k := range keys {
			p.strKeys[strings.ToLower(k)] = true
		}
	}
}

// WithCarryOver retains resolved names across Process calls. By default
// the registry is cleared at the start of each section.
func WithCarryOver(enable bool) Option {
	return func(p *Processor) { p.carryOver = enable }
}

// WithLogger sets the logger used for per-entry tracing.
func WithLogger(l log.Logger) Option {
	return func(p *Processor) { p.log = l }
}

// NewProcessor creates a Processor with the given options applied.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		reg:     lang.NewRegistry(),
		strKeys: make(map[string]bool),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Registry exposes the processor's registry, mainly for seeding values
// before processing and for inspection in tests.
func (p *Processor) Registry() *lang.Registry { return p.reg }

// target describes where one entry's resolved value is delivered:
// either a path in the output tree, or a registry name, possibly
// through a property group.
type target struct {
	interim bool
	name    string   // registry name, interim entries only
	prop    string   // property name within a group, or ""
	path    []string // output tree path, non-interim entries only
	key     string   // original entry key, for error reporting
}

// pending is a parsed entry still blocked on unresolved names.
type pending struct {
	target
	node lang.Node
}

// group accumulates the resolved properties of one interim group until
// all of its sub-entries have been delivered.
type group struct {
	props map[string]any
	need  int
}

// Process resolves one section and returns its nested output tree.
// Interim entries resolve in dependency order and never appear in the
// result. A dependency cycle, or a reference to a name that no entry
// defines, yields [ErrUnresolvedDependency] naming the blockers.
func (p *Processor) Process(sec Section) (map[string]any, error) {
	if !p.carryOver {
		p.reg.Clear()
	}

	targets, groups, err := p.classify(sec)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any)

	var queue []pending

	for i, e := range sec.Entries {
		t := targets[i]

		if p.verbatim(t) {
			if err := p.deliver(t, e.Value, groups, out); err != nil {
				return nil, p.entryErr(sec, e, err)
			}

			continue
		}

		node, err := lang.Parse(e.Value, p.reg, p.ctx)
		if err != nil {
			return nil, p.entryErr(sec, e, err)
		}

		if !node.Ready(p.reg) {
			queue = append(queue, pending{target: t, node: node})

			continue
		}

		if err := p.evaluate(sec, pending{target: t, node: node}, groups, out); err != nil {
			return nil, err
		}
	}

	if err := p.drain(sec, queue, groups, out); err != nil {
		return nil, err
	}

	p.log.Debug("section processed",
		slog.String("section", sec.Name),
		slog.Int("entries", len(sec.Entries)),
	)

	return out, nil
}

// classify resolves each entry to its delivery target, subscribes the
// interim names, and sizes the interim property groups.
func (p *Processor) classify(sec Section) ([]target, map[string]*group, error) {
	targets := make([]target, len(sec.Entries))
	groups := make(map[string]*group)
	seen := make(map[string]bool)

	for i, e := range sec.Entries {
		key := strings.ToLower(e.Key)
		segs := strings.Split(key, ".")

		if !strings.HasPrefix(segs[0], interimPrefix) {
			targets[i] = target{path: segs, key: key}

			continue
		}

		name := strings.TrimPrefix(segs[0], interimPrefix)
		t := target{interim: true, name: name, key: key}

		if len(segs) > 1 {
			t.prop = strings.Join(segs[1:], ".")

			g, ok := groups[name]
			if !ok {
				g = &group{props: make(map[string]any)}
				groups[name] = g
			}

			g.need++
		}

		targets[i] = t

		if !seen[name] {
			seen[name] = true

			if err := p.reg.Subscribe(name); err != nil {
				return nil, nil, p.entryErr(sec, e, err)
			}
		}
	}

	return targets, groups, nil
}

func (p *Processor) verbatim(t target) bool {
	segs := strings.Split(t.key, ".")

	return p.strKeys[segs[len(segs)-1]]
}

// evaluate computes a ready node's value and delivers it.
func (p *Processor) evaluate(
	sec Section,
	item pending,
	groups map[string]*group,
	out map[string]any,
) error {
	v, err := item.node.Evaluate(p.reg, p.ctx)
	if err != nil {
		return p.entryErr(sec, Entry{Key: item.key}, err)
	}

	p.log.Trace("entry resolved",
		slog.String("section", sec.Name),
		slog.String("key", item.key),
		slog.String("value", lang.FormatValue(v)),
	)

	if err := p.deliver(item.target, v, groups, out); err != nil {
		return p.entryErr(sec, Entry{Key: item.key}, err)
	}

	return nil
}

// deliver routes a resolved value to the output tree, the registry, or
// an interim property group.
func (p *Processor) deliver(
	t target,
	v any,
	groups map[string]*group,
	out map[string]any,
) error {
	if !t.interim {
		setPath(out, t.path, v)

		return nil
	}

	if t.prop == "" {
		return p.reg.Update(t.name, v)
	}

	g := groups[t.name]
	g.props[t.prop] = v
	g.need--

	if g.need > 0 {
		return nil
	}

	return p.finish(t.name, g)
}

// finish publishes a completed interim group. A group carrying the type
// discriminator is assembled by the builder; otherwise the property map
// itself becomes the registry value.
func (p *Processor) finish(name string, g *group) error {
	typeName, typed := g.props[TypeKey].(string)
	if !typed {
		return p.reg.Update(name, g.props)
	}

	if p.builder == nil {
		return ErrNoBuilder.With(
			slog.String("name", name),
			slog.String("type", typeName),
		)
	}

	props := make(map[string]any, len(g.props)-1)

	for k, v := range g.props {
		if k != TypeKey {
			props[k] = v
		}
	}

	built, err := p.builder.Build(typeName, props)
	if err != nil {
		return err
	}

	p.log.Debug("interim group built",
		slog.String("name", name),
		slog.String("type", typeName),
	)

	return p.reg.Update(name, built)
}

// drain repeatedly evaluates pending entries as their blockers resolve.
// Each round must resolve at least one entry, so the loop is bounded by
// the queue length; anything left is a cycle or an undefined reference.
func (p *Processor) drain(
	sec Section,
	queue []pending,
	groups map[string]*group,
	out map[string]any,
) error {
	for rounds := len(queue) + 1; rounds > 0 && len(queue) > 0; rounds-- {
		var next []pending

		for _, item := range queue {
			if !item.node.Ready(p.reg) {
				next = append(next, item)

				continue
			}

			if err := p.evaluate(sec, item, groups, out); err != nil {
				return err
			}
		}

		if len(next) == len(queue) {
			break
		}

		queue = next
	}

	if len(queue) == 0 {
		return nil
	}

	return ErrUnresolvedDependency.With(
		slog.String("section", sec.Name),
		slog.Any("keys", pendingKeys(queue)),
		slog.Any("blockers", p.blockers(queue)),
	)
}

func pendingKeys(queue []pending) []string {
	keys := make([]string, len(queue))
	for i, item := range queue {
		keys[i] = item.key
	}

	return keys
}

// blockers returns the unresolved names the queue is waiting on.
func (p *Processor) blockers(queue []pending) []string {
	var names []string

	seen := make(map[string]bool)

	for _, item := range queue {
		for _, name := range item.node.UsedNames() {
			if !p.reg.Resolved(name) && !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	return names
}

func (p *Processor) entryErr(sec Section, e Entry, err error) error {
	return lang.WrapError(err).With(
		slog.String("section", sec.Name),
		slog.String("key", e.Key),
	)
}

// setPath writes a value into the nested output tree, creating
// intermediate maps as needed.
func setPath(out map[string]any, path []string, v any) {
	for _, seg := range path[:len(path)-1] {
		child, ok := out[seg].(map[string]any)
		if !ok {
			child = make(map[string]any)
			out[seg] = child
		}

		out = child
	}

	out[path[len(path)-1]] = v
}
