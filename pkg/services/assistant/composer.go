package assistant

import (
	"strings"

	"github.com/de-tools/blocks/pkg/apperrors"
	"github.com/de-tools/blocks/pkg/models/domain"
)

// composer writes prose and records each reference at the point it is cited.
type composer struct {
	text    strings.Builder
	refs    []string
	seen    map[string]struct{}
	sources []string
	labels  map[string]string
	open    bool // last sentence still awaits its full stop
	inList  bool
}

func newComposer(facts Facts) *composer {
	labels := make(map[string]string, len(facts.Aggregates)+len(facts.Recommendations))
	for _, a := range facts.Aggregates {
		labels[a.Ref().String()] = a.Label
	}
	for _, r := range facts.Recommendations {
		labels[r.Ref().String()] = r.Title
	}
	return &composer{seen: make(map[string]struct{}), labels: labels}
}

// sentence starts a new sentence ending with the given citations.
func (c *composer) sentence(s string, refs ...domain.ReferenceToken) {
	c.closeSentence()
	switch {
	case c.inList:
		c.text.WriteByte('\n')
	case c.text.Len() > 0:
		c.text.WriteByte(' ')
	}
	c.inList = false
	c.text.WriteString(s)
	c.cite(refs)
	c.open = true
}

// continueSentence extends the open sentence with another cited clause.
func (c *composer) continueSentence(s string, refs ...domain.ReferenceToken) {
	c.text.WriteByte(' ')
	c.text.WriteString(s)
	c.cite(refs)
}

// line writes a list item on its own line.
func (c *composer) line(s string, refs ...domain.ReferenceToken) {
	c.closeSentence()
	c.text.WriteByte('\n')
	c.text.WriteString(s)
	c.cite(refs)
	c.text.WriteByte('.')
	c.inList = true
}

func (c *composer) cite(refs []domain.ReferenceToken) {
	for _, ref := range refs {
		c.text.WriteByte(' ')
		c.text.WriteString(ref.Inline())
		token := ref.String()
		if _, ok := c.seen[token]; ok {
			continue
		}
		c.seen[token] = struct{}{}
		c.refs = append(c.refs, token)
		if label, ok := c.labels[token]; ok {
			c.sources = append(c.sources, label)
		}
	}
}

func (c *composer) closeSentence() {
	if !c.open {
		return
	}
	s := c.text.String()
	if !strings.HasSuffix(s, ":") && !strings.HasSuffix(s, ".") && !strings.HasSuffix(s, "?") {
		c.text.WriteByte('.')
	}
	c.open = false
}

func (c *composer) response(topics []Topic, confidence float64) domain.AssistantResponse {
	c.closeSentence()
	names := make([]string, 0, len(topics))
	for _, t := range topics {
		names = append(names, string(t))
	}
	refs := c.refs
	if refs == nil {
		refs = []string{}
	}
	return domain.AssistantResponse{
		Response:   c.text.String(),
		References: refs,
		Confidence: confidence,
		Sources:    c.sources,
		Meta:       domain.ResponseMeta{Topics: names},
	}
}

// result requires at least one citation: a substantive answer without any is
// not well formed.
func (c *composer) result(topics []Topic, confidence float64) (domain.AssistantResponse, error) {
	if len(c.refs) == 0 {
		return domain.AssistantResponse{}, apperrors.ContentGeneration("no citable facts for a substantive answer")
	}
	return c.response(topics, confidence), nil
}

func (c *composer) resultAllowEmpty(topics []Topic, confidence float64) (domain.AssistantResponse, error) {
	return c.response(topics, confidence), nil
}
