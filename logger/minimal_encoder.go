package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

type palette struct {
	time      string
	component string
	key       string
	value     string
	warn      string
	warnBg    string
	err       string
	errBg     string
}

var themes = map[string]palette{
	"everforest": {
		time:      "\x1b[38;5;107m", // Mid green (#83c092)
		component: "\x1b[38;5;208m", // Autumn orange (#e69875)
		key:       "\x1b[38;5;65m",  // Deep green
		value:     "\x1b[38;5;109m", // Blue-green (#7fbbb3)
		warn:      "\x1b[38;5;179m",
		warnBg:    "\x1b[48;5;58m",
		err:       "\x1b[38;5;167m",
		errBg:     "\x1b[48;5;52m",
	},
	"gruvbox": {
		time:      "\x1b[38;5;108m", // Aqua (#8ec07c)
		component: "\x1b[38;5;214m", // Yellow (#fabd2f)
		key:       "\x1b[38;5;175m", // Purple (#d3869b)
		value:     "\x1b[38;5;109m", // Blue (#83a598)
		warn:      "\x1b[38;5;214m",
		warnBg:    "\x1b[48;5;58m",
		err:       "\x1b[38;5;167m",
		errBg:     "\x1b[48;5;88m",
	},
}

// Current active theme (set from config or BINDGEN_LOG_THEME)
var currentTheme = "everforest"

// SetTheme configures the color scheme for console log output.
// Unknown themes are ignored.
func SetTheme(theme string) {
	if _, ok := themes[theme]; ok {
		currentTheme = theme
	}
}

// Themes returns the names of the available console themes, sorted.
func Themes() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// minimalEncoder is a compact console encoder:
// "13:04:35  t.resolve  Resolved conversion  host_type=int foreign_type=jint"
//
// Every field is printed as key=value; nothing is dropped.
type minimalEncoder struct {
	zapcore.Encoder // base encoder keeps With() fields for Clone
	fields          []zapcore.Field
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	fields := make([]zapcore.Field, len(enc.fields))
	copy(fields, enc.fields)
	return &minimalEncoder{
		Encoder: enc.Encoder.Clone(),
		fields:  fields,
	}
}

// AddString and friends are routed through the embedded encoder by zap when
// With() is used; capture them as fields too so they are printed.
func (enc *minimalEncoder) AddString(key, value string) {
	enc.fields = append(enc.fields, zap.String(key, value))
}

func (enc *minimalEncoder) AddInt64(key string, value int64) {
	enc.fields = append(enc.fields, zap.Int64(key, value))
}

func (enc *minimalEncoder) AddBool(key string, value bool) {
	enc.fields = append(enc.fields, zap.Bool(key, value))
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	p := themes[currentTheme]
	final := buffer.NewPool().Get()

	final.AppendString(p.time)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	if level := levelString(p, ent.Level); level != "" {
		final.AppendString("  ")
		final.AppendString(level)
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(p.component)
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(ent.Message)

	all := make([]zapcore.Field, 0, len(enc.fields)+len(fields))
	all = append(all, enc.fields...)
	all = append(all, fields...)
	if len(all) > 0 {
		final.AppendString("  ")
		final.AppendString(formatFields(p, all))
	}

	final.AppendString("\n")
	return final, nil
}

// levelString returns bold + colored + background for WARN/ERROR, empty otherwise
func levelString(p palette, level zapcore.Level) string {
	switch level {
	case zapcore.WarnLevel:
		return colorBold + p.warnBg + p.warn + "WARN" + colorReset
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return colorBold + p.errBg + p.err + level.CapitalString() + colorReset
	case zapcore.DebugLevel:
		return p.key + "debug" + colorReset
	default:
		return ""
	}
}

// abbreviateName shortens component names: typemap.resolve -> t.resolve
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 && parts[0] != "" {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

// formatFields renders every field as key=value in call order.
func formatFields(p palette, fields []zapcore.Field) string {
	enc := zapcore.NewMapObjectEncoder()
	order := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		f.AddTo(enc)
		if !seen[f.Key] {
			seen[f.Key] = true
			order = append(order, f.Key)
		}
	}

	parts := make([]string, 0, len(order))
	for _, key := range order {
		parts = append(parts, fmt.Sprintf("%s%s%s=%s%v%s", p.key, key, colorReset, p.value, enc.Fields[key], colorReset))
	}
	return strings.Join(parts, " ")
}
