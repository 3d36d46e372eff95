package poll

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

type Option struct {
	Label string `json:"label"`
	Votes int    `json:"votes"`
}

type KeyedOption struct {
	Key string
	Option
}

// Options is encoded as a JSON object whose keys keep their order. Clients
// render options, and pick the default poll, in object order.
type Options []KeyedOption

func (o Options) Index(key string) int {
	return slices.IndexFunc(o, func(k KeyedOption) bool { return k.Key == key })
}

func (o Options) MarshalJSON() ([]byte, error) {
	keys := make([]string, len(o))
	vals := make([]any, len(o))
	for i, k := range o {
		keys[i], vals[i] = k.Key, k.Option
	}
	return orderedObject(keys, vals)
}

func (o *Options) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	if tok, err := dec.Token(); err != nil {
		return err
	} else if tok != json.Delim('{') {
		return fmt.Errorf("options: expected object, got %v", tok)
	}
	out := Options{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var opt Option
		if err := dec.Decode(&opt); err != nil {
			return fmt.Errorf("options[%s]: %w", key, err)
		}
		out = append(out, KeyedOption{Key: key, Option: opt})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = out
	return nil
}

type Poll struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Options   Options   `json:"options"`
	CreatedAt time.Time `json:"created_at"`
}

// naiveTimestamp is an ISO-8601 time with no zone offset.
const naiveTimestamp = "2006-01-02T15:04:05.999999999"

// UnmarshalJSON also accepts a created_at with no zone offset, read as
// local time.
func (p *Poll) UnmarshalJSON(b []byte) error {
	type plain Poll
	var raw struct {
		plain
		CreatedAt string `json:"created_at"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = Poll(raw.plain)
	if raw.CreatedAt == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw.CreatedAt)
	if err != nil {
		if t, err = time.ParseInLocation(naiveTimestamp, raw.CreatedAt, time.Local); err != nil {
			return fmt.Errorf("created_at: %w", err)
		}
	}
	p.CreatedAt = t
	return nil
}

// View is a poll as the API returns it.
type View struct {
	ID       string  `json:"id"`
	Question string  `json:"question"`
	Options  Options `json:"options"`
}

func (p Poll) View() View {
	return View{ID: p.ID, Question: p.Question, Options: p.Options}
}

// Index maps poll id to poll, in creation order.
type Index []View

func (ix Index) MarshalJSON() ([]byte, error) {
	keys := make([]string, len(ix))
	vals := make([]any, len(ix))
	for i, v := range ix {
		keys[i], vals[i] = v.ID, v
	}
	return orderedObject(keys, vals)
}

type CreatePollDTO struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

func orderedObject(keys []string, vals []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(vals[i])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
