// Package answers builds and submits the answer payload of a HIT form.
//
// Several collectible inputs are flattened into one field: each input becomes a
// "/name:value/" token and the tokens are joined with commas. A single input is
// sent as its bare value.
package answers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"amtconsole/internal/backend"
	"amtconsole/internal/util/logx"
)

const Field = "answers"

var ErrNoEndpoint = errors.New("answers: no submit endpoint configured")

var log = logx.Named("answers")

type Input struct {
	Name        string
	Value       string
	Collectible bool
}

func collectible(inputs []Input) []Input {
	out := make([]Input, 0, len(inputs))
	for _, in := range inputs {
		if in.Collectible {
			out = append(out, in)
		}
	}
	return out
}

// Serialize returns the value of the answers field.
func Serialize(inputs []Input) string {
	in := collectible(inputs)
	switch len(in) {
	case 0:
		return ""
	case 1:
		return in[0].Value
	}
	tokens := make([]string, len(in))
	for i, c := range in {
		tokens[i] = "/" + c.Name + ":" + c.Value + "/"
	}
	return strings.Join(tokens, ",")
}

// Payload renders the raw "answers=..." body, unescaped.
func Payload(inputs []Input) string {
	return Field + "=" + Serialize(inputs)
}

// Form is the urlencoded form actually put on the wire.
func Form(inputs []Input) url.Values {
	return url.Values{Field: {Serialize(inputs)}}
}

// Parse decodes a serialized answer the way the server does. Flattened
// answers come back as a map; a plain value reports ok=false.
func Parse(s string) (fields map[string]string, ok bool) {
	if !strings.Contains(s, ":") {
		return nil, false
	}
	parts := strings.Split(s, "/")
	if len(parts) < 3 {
		return nil, false
	}
	fields = map[string]string{}
	// tokens sit at odd positions; the even ones are the "" and "," separators
	for i := 1; i < len(parts)-1; i += 2 {
		name, value, found := strings.Cut(parts[i], ":")
		if !found {
			continue
		}
		fields[name] = value
	}
	return fields, true
}

// Poster is satisfied by *backend.Client.
type Poster interface {
	PostForm(ctx context.Context, path string, values url.Values) (backend.Response, error)
}

// Submitter sends answers to a fixed absolute endpoint.
type Submitter struct {
	client   Poster
	endpoint string
}

func NewSubmitter(client Poster, endpoint string) *Submitter {
	return &Submitter{client: client, endpoint: strings.TrimSpace(endpoint)}
}

// Submit posts the answers and returns once the round trip is over. Callers
// must not navigate away before it returns. The response body is ignored.
func (s *Submitter) Submit(ctx context.Context, inputs []Input) error {
	if s.endpoint == "" {
		return ErrNoEndpoint
	}
	resp, err := s.client.PostForm(ctx, s.endpoint, Form(inputs))
	if err != nil {
		return fmt.Errorf("submit answers: %w", err)
	}
	log.Infof("submitted %d answer(s), status %d", len(collectible(inputs)), resp.Status)
	return nil
}

// ParseArg reads a command line "name=value" pair into a collectible input.
func ParseArg(arg string) (Input, error) {
	name, value, found := strings.Cut(arg, "=")
	if !found || strings.TrimSpace(name) == "" {
		return Input{}, fmt.Errorf("answer %q: want name=value", arg)
	}
	return Input{Name: strings.TrimSpace(name), Value: value, Collectible: true}, nil
}
