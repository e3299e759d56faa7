// Package config defines the CLI surface (spec.md §6) via a kong-parsed
// struct, plus the --sample-config template generator adapted from
// internal/cmd/config.go's buildMapFromStruct reflection walk.
package config

import (
	"reflect"
	"strconv"
	"strings"
)

// minPollingIntervalMicros is the floor spec.md §6 imposes on
// --polling-interval: the Vita's report cadence can't usefully go faster.
const minPollingIntervalMicros = 6000

// CLI is the full command-line/config-file surface. Field order matches
// spec.md §6's flag table; kong derives flag names from field names
// (kebab-cased) unless a `name` tag overrides them.
type CLI struct {
	IP string `arg:"" optional:"" env:"VITAOXIPAD_IP" help:"Vita's IP address to connect to."`

	Port             uint16 `short:"p" default:"5000" env:"VITAOXIPAD_PORT" help:"TCP/UDP port the Vita listens on."`
	Configuration    string `short:"c" default:"standart" env:"VITAOXIPAD_CONFIGURATION" enum:"standart,alt_triggers,rear_touchpad,front_touchpad" help:"Named touch-layout preset."`
	PollingInterval  uint64 `name:"polling-interval" default:"6000" env:"VITAOXIPAD_POLLING_INTERVAL" help:"Requested report interval, in microseconds (floor 6000)."`
	Debug            bool   `short:"d" env:"VITAOXIPAD_DEBUG" help:"Enable debug logging."`
	Version          bool   `short:"v" help:"Print version and exit."`
	SampleConfig     bool   `short:"s" name:"sample-config" help:"Print a generated configuration template and exit."`
	SampleFormat     string `name:"sample-config-format" default:"toml" enum:"toml,yaml" help:"Format for --sample-config."`
	PSK              string `name:"psk" help:"Pre-shared key; when set, an HMAC challenge precedes the handshake."`

	Log struct {
		Level   string `default:"info" enum:"trace,debug,info,warn,error" help:"Minimum log level."`
		File    string `help:"Optional path to mirror logs into, in addition to stdout/stderr."`
		RawFile string `name:"raw-file" help:"Optional path to hex-dump raw wire frames into."`
	} `embed:"" prefix:"log."`
}

// NormalizedPollingInterval applies the 6000us floor spec.md §6 requires.
func (c *CLI) NormalizedPollingInterval() uint64 {
	if c.PollingInterval < minPollingIntervalMicros {
		return minPollingIntervalMicros
	}
	return c.PollingInterval
}

func lowerCamel(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'A' && r[0] <= 'Z' {
		r[0] = r[0] + ('a' - 'A')
	}
	return string(r)
}

// BuildSampleMap walks the CLI struct via reflection, producing a
// nested map of field-name -> default value suitable for TOML/YAML
// marshaling, the same reflection-walk technique as internal/cmd/config.go.
func BuildSampleMap() map[string]any {
	return buildMapFromStruct(reflect.TypeOf(CLI{}))
}

func buildMapFromStruct(t reflect.Type) map[string]any {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	out := map[string]any{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if f.Tag.Get("kong") == "-" {
			continue
		}
		if f.Name == "IP" || f.Name == "Version" || f.Name == "SampleConfig" || f.Name == "SampleFormat" {
			// Positional arg and one-shot flags have no place in a
			// persisted config file.
			continue
		}

		if _, ok := f.Tag.Lookup("embed"); ok {
			prefix := strings.TrimSuffix(f.Tag.Get("prefix"), ".")
			sub := buildMapFromStruct(f.Type)
			if prefix != "" {
				out[prefix] = sub
			} else {
				for k, v := range sub {
					out[k] = v
				}
			}
			continue
		}

		key := lowerCamel(f.Name)
		def := f.Tag.Get("default")
		val := defaultValueForField(f.Type, def)
		if val != nil {
			out[key] = val
		}
	}
	return out
}

func defaultValueForField(t reflect.Type, def string) any {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return def
	case reflect.Bool:
		if def == "" {
			return false
		}
		b, err := strconv.ParseBool(def)
		if err != nil {
			return false
		}
		return b
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if def == "" {
			return 0
		}
		n, err := strconv.ParseInt(def, 10, 64)
		if err != nil {
			return 0
		}
		return n
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if def == "" {
			return 0
		}
		n, err := strconv.ParseUint(def, 10, 64)
		if err != nil {
			return 0
		}
		return n
	case reflect.Struct:
		return buildMapFromStruct(t)
	default:
		return nil
	}
}
