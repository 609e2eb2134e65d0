package form

import (
	"net/url"
	"strconv"
)

// Entry is one flattened form field. File is set for binary leaves,
// Value for everything else.
type Entry struct {
	Key   string
	Value string
	File  *File
}

// Flatten converts nested values into bracket-notated entries:
// {a: {b: [1, 2]}} becomes a[b][0]=1, a[b][1]=2. Null leaves are omitted.
// Map keys are visited in sorted order.
func Flatten(values Map) []Entry {
	return flattenFields(values.Keys(), values)
}

// flattenFields flattens the top-level fields in the given order.
func flattenFields(order []string, values Map) []Entry {
	var out []Entry
	for _, name := range order {
		v, ok := values[name]
		if !ok {
			continue
		}
		out = flattenValue(name, v, out)
	}
	return out
}

func flattenValue(key string, v Value, out []Entry) []Entry {
	switch t := v.(type) {
	case nil, Null:
		return out
	case *File:
		if t == nil {
			return out
		}
		return append(out, Entry{Key: key, File: t})
	case Scalar:
		return append(out, Entry{Key: key, Value: t.String()})
	case List:
		for i, e := range t {
			out = flattenValue(key+"["+strconv.Itoa(i)+"]", e, out)
		}
		return out
	case Map:
		for _, k := range t.Keys() {
			out = flattenValue(key+"["+k+"]", t[k], out)
		}
		return out
	}
	return out
}

// appendQuery adds non-binary entries to the query string of u.
func appendQuery(u *url.URL, entries []Entry) {
	if len(entries) == 0 {
		return
	}
	q := u.Query()
	for _, e := range entries {
		if e.File != nil {
			continue
		}
		q.Add(e.Key, e.Value)
	}
	u.RawQuery = q.Encode()
}
