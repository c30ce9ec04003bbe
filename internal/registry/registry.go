package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrUnknownCode is returned when a login code has no doctor entry.
var ErrUnknownCode = errors.New("unknown doctor code")

// Doctor is one entry of the pharmacy roster.
type Doctor struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Admin bool   `json:"admin"`
}

// Registry is the static doctor table. It is built once at startup and
// never mutated; iteration follows roster declaration order.
type Registry struct {
	doctors []Doctor
	byCode  map[string]Doctor
}

// New builds a registry from a roster. Later duplicates of a code are ignored.
func New(doctors []Doctor) *Registry {
	r := &Registry{byCode: make(map[string]Doctor, len(doctors))}
	for _, d := range doctors {
		d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
		if d.Code == "" {
			continue
		}
		if _, dup := r.byCode[d.Code]; dup {
			continue
		}
		r.byCode[d.Code] = d
		r.doctors = append(r.doctors, d)
	}
	return r
}

// LoadFile reads a JSON roster file: an array of {code, name, admin} objects.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	var doctors []Doctor
	if err := json.Unmarshal(data, &doctors); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	return New(doctors), nil
}

// Default returns the built-in pharmacy roster.
func Default() *Registry {
	return New([]Doctor{
		{Code: "RK36", Name: "دكتور رامي", Admin: true},
		{Code: "RA12", Name: "دكتوره روجينا"},
		{Code: "KK00", Name: "دكتوره كاتي"},
		{Code: "FH12", Name: "دكتور فادي"},
		{Code: "FM90", Name: "فادي عماد"},
		{Code: "YT56", Name: "يوسف ثروت"},
		{Code: "GH78", Name: "جرجس هلال"},
		{Code: "MH20", Name: "مارينا هاني"},
	})
}

// Lookup resolves a login code. Codes are matched case-insensitively and
// stored upper-case, mirroring the login form behaviour.
func (r *Registry) Lookup(code string) (Doctor, error) {
	d, ok := r.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Doctor{}, ErrUnknownCode
	}
	return d, nil
}

// All returns every doctor in declaration order.
func (r *Registry) All() []Doctor {
	return r.doctors
}

// NonAdmins returns the staff doctors in declaration order.
func (r *Registry) NonAdmins() []Doctor {
	var out []Doctor
	for _, d := range r.doctors {
		if !d.Admin {
			out = append(out, d)
		}
	}
	return out
}

// Name resolves a doctor's display name, or a placeholder for unknown codes.
func (r *Registry) Name(code string) string {
	if d, err := r.Lookup(code); err == nil {
		return d.Name
	}
	return "غير معروف"
}
