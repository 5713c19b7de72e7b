// Package tracestate parses and serialises a W3C tracestate header: an
// ordered, comma-separated list of "key=value" members. A List is built
// fresh from a header string for the duration of one request and discarded
// after ToHeader; it carries no process-lifetime state.
package tracestate

import "strings"

type member struct {
	key   string
	value string
}

// List is an ordered, key-addressed tracestate member list.
type List struct {
	members []member
}

// Parse decodes a tracestate header. List members are comma-separated;
// empty members are skipped. A member not of the form "k=v" with a
// non-empty key and non-empty value is discarded, per W3C tracestate
// semantics — malformed entries from foreign vendors are simply dropped,
// never treated as an error.
func Parse(header string) *List {
	l := &List{}
	if header == "" {
		return l
	}
	for _, raw := range strings.Split(header, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		idx := strings.IndexByte(raw, '=')
		if idx < 0 {
			continue
		}
		key := strings.TrimLeft(raw[:idx], " \t")
		value := strings.TrimRight(raw[idx+1:], " \t")
		if key == "" || value == "" {
			continue
		}
		l.members = append(l.members, member{key: key, value: value})
	}
	return l
}

// Get returns the value for key and whether it was present.
func (l *List) Get(key string) (string, bool) {
	for _, m := range l.members {
		if m.key == key {
			return m.value, true
		}
	}
	return "", false
}

// Set replaces key's value in place if present, preserving the position and
// order of every other member. If key is absent, the new member is
// prepended — it becomes the head of the list, per W3C tracestate write
// semantics.
func (l *List) Set(key, value string) {
	for i := range l.members {
		if l.members[i].key == key {
			l.members[i].value = value
			return
		}
	}
	l.members = append([]member{{key: key, value: value}}, l.members...)
}

// ToHeader re-emits the list as a comma-separated header, members in
// current order.
func (l *List) ToHeader() string {
	parts := make([]string, len(l.members))
	for i, m := range l.members {
		parts[i] = m.key + "=" + m.value
	}
	return strings.Join(parts, ",")
}
