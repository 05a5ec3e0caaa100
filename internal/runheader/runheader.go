// Package runheader supplies the cosmetic metadata stamped at the top of
// always-regenerated files.
package runheader

import (
	"os"
	"time"
)

// TimeLayout formats Header.CreatedAt in generated files
const TimeLayout = "2006-01-02 15:04:05"

// Header is the per-run metadata written into generated file headers
type Header struct {
	Database  string
	CreatedAt time.Time
	User      string
	Host      string
}

// CreatedBy renders "user@host" with "-" for unknown parts
func (h Header) CreatedBy() string {
	return orDash(h.User) + "@" + orDash(h.Host)
}

// Provider produces the header for a run
type Provider interface {
	Header(database string) Header
}

// Env reads identity from the process environment. Zero-valued fields fall
// back to os.Getenv, os.Hostname and time.Now.
type Env struct {
	Getenv   func(string) string
	Hostname func() (string, error)
	Now      func() time.Time
}

// Header implements Provider
func (e Env) Header(database string) Header {
	getenv := e.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	now := e.Now
	if now == nil {
		now = time.Now
	}

	return Header{
		Database:  database,
		CreatedAt: now(),
		User:      firstNonEmpty(getenv("USER"), getenv("USERNAME")),
		Host:      e.host(getenv),
	}
}

func (e Env) host(getenv func(string) string) string {
	if h := firstNonEmpty(getenv("COMPUTERNAME"), getenv("HOSTNAME")); h != "" {
		return h
	}
	hostname := e.Hostname
	if hostname == nil {
		hostname = os.Hostname
	}
	h, err := hostname()
	if err != nil {
		return ""
	}
	return h
}

// Static always returns the same header; handy in tests.
type Static Header

// Header implements Provider. The database label passed in wins over the stored one.
func (s Static) Header(database string) Header {
	h := Header(s)
	h.Database = database
	return h
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
