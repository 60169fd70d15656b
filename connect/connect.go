// Package connect turns a netezza:// URL into the arguments of sql.Open.
//
// The accepted form is
//
//	netezza[+odbc]://user:password@DSN[/database][?key=value&...]
//
// where DSN names an ODBC data source. Names a URL host cannot hold, such
// as "NZSQL Prod", go in the dsn option with an empty host:
//
//	netezza://user:password@/database?dsn=NZSQL%20Prod
// The result is an ODBC connection
// string; the password never appears in String or Redacted output.
package connect

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"

	"nzdialect/core"
)

const (
	// Scheme is the primary URL scheme.
	Scheme = "netezza"
	// SchemeODBC names the ODBC transport explicitly.
	SchemeODBC = "netezza+odbc"

	// DefaultDriver is the database/sql driver name used when the URL does
	// not pick one with the driver_name option.
	DefaultDriver = "odbc"

	driverOption = "driver_name"
	dsnOption    = "dsn"
)

// Spec is a parsed connection URL. It lives only for the duration of a
// connect call.
type Spec struct {
	Scheme   string
	DSN      string
	Username string
	Password string
	Database string
	Options  map[string]string
}

// Args are the arguments handed to sql.Open.
type Args struct {
	DriverName string
	ConnString string

	redacted string
}

// Redacted returns the connection string with the password masked.
func (a Args) Redacted() string {
	return a.redacted
}

func (a Args) String() string {
	return a.DriverName + ":" + a.redacted
}

// ParseURL parses raw into a Spec. Configuration problems are reported as
// *core.ConfigError before any connection is attempted.
func ParseURL(raw string) (*Spec, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, &core.ConfigError{Field: "url", Reason: "connection URL is empty"}
	}
	u, err := url.Parse(raw)
	if err != nil {
		// url.Error quotes the full URL, password included.
		return nil, &core.ConfigError{Field: "url", Reason: "malformed connection URL"}
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != Scheme && scheme != SchemeODBC {
		return nil, &core.ConfigError{
			Field:  "scheme",
			Reason: fmt.Sprintf("unsupported scheme %q, want %s or %s", u.Scheme, Scheme, SchemeODBC),
		}
	}

	s := &Spec{
		Scheme:   scheme,
		DSN:      u.Host,
		Database: strings.Trim(u.Path, "/"),
		Options:  map[string]string{},
	}
	if u.User != nil {
		s.Username = u.User.Username()
		s.Password, _ = u.User.Password()
	}
	for k, v := range u.Query() {
		if len(v) > 0 {
			s.Options[k] = v[len(v)-1]
		}
	}

	if name, ok := s.Options[dsnOption]; ok {
		delete(s.Options, dsnOption)
		if s.DSN != "" && s.DSN != name {
			return nil, &core.ConfigError{
				Field:  "dsn",
				Reason: fmt.Sprintf("data source given twice: host %q and dsn option %q", s.DSN, name),
			}
		}
		s.DSN = name
	}
	if strings.TrimSpace(s.DSN) == "" {
		return nil, &core.ConfigError{Field: "dsn", Reason: "missing data source name"}
	}
	return s, nil
}

// ConnectArgs builds the driver arguments. Options other than driver_name
// are passed through as ODBC attributes in sorted order.
func (s *Spec) ConnectArgs() (Args, error) {
	if strings.TrimSpace(s.DSN) == "" {
		return Args{}, &core.ConfigError{Field: "dsn", Reason: "missing data source name"}
	}

	driver := DefaultDriver
	if d := strings.TrimSpace(s.Options[driverOption]); d != "" {
		driver = d
	}

	var full, masked []string
	add := func(key, value string, secret bool) {
		if value == "" {
			return
		}
		full = append(full, key+"="+escape(value))
		if secret {
			masked = append(masked, key+"=***")
		} else {
			masked = append(masked, key+"="+escape(value))
		}
	}

	add("DSN", s.DSN, false)
	add("UID", s.Username, false)
	add("PWD", s.Password, true)
	add("DATABASE", s.Database, false)
	for _, k := range slices.Sorted(maps.Keys(s.Options)) {
		if k == driverOption {
			continue
		}
		add(k, s.Options[k], false)
	}

	return Args{
		DriverName: driver,
		ConnString: strings.Join(full, ";"),
		redacted:   strings.Join(masked, ";"),
	}, nil
}

// String renders the spec as a URL with the password masked.
func (s *Spec) String() string {
	u := url.URL{Scheme: s.Scheme}
	q := url.Values{}
	if hostSafe(s.DSN) {
		u.Host = s.DSN
	} else if s.DSN != "" {
		q.Set(dsnOption, s.DSN)
	}
	if s.Username != "" {
		if s.Password != "" {
			u.User = url.UserPassword(s.Username, "xxxxx")
		} else {
			u.User = url.User(s.Username)
		}
	}
	if s.Database != "" {
		u.Path = "/" + s.Database
	}
	for k, v := range s.Options {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// hostSafe reports whether name survives a round trip as a URL host.
func hostSafe(name string) bool {
	return !strings.ContainsAny(name, " %/?#@:[]")
}

// escape wraps values containing ODBC separators in braces, doubling any
// closing brace.
func escape(v string) string {
	if !strings.ContainsAny(v, ";{}=") && strings.TrimSpace(v) == v {
		return v
	}
	return "{" + strings.ReplaceAll(v, "}", "}}") + "}"
}
