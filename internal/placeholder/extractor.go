// Package placeholder implements the placeholder extractor: given a
// message's pattern, it resolves the full set of variable names the
// message's rendering will need, following message and term references
// transitively. Message references (but never term references) are also
// recorded as dependencies, both on the key itself and in a run-wide
// "referenced" accumulator the reconciler consults before retiring a
// stored key that looks unused in code.
package placeholder

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"

	"github.com/agentic-research/fluentkeys/internal/fluent"
	"github.com/agentic-research/fluentkeys/internal/key"
)

// Extractor resolves placeholders against a fixed universe of messages and
// terms. It interns message/term names into integer IDs so the "currently
// resolving" cycle guard can be a roaring.Bitmap rather than a map, mirroring
// the integer-interned bitmap sets this module's teacher uses for its own
// graph traversals.
type Extractor struct {
	messages map[string]*key.Key
	terms    map[string]*key.Key
	ids      map[string]uint32
	next     uint32
}

// New builds an Extractor over a fixed set of messages and terms, keyed by
// name.
func New(messages, terms map[string]*key.Key) *Extractor {
	return &Extractor{
		messages: messages,
		terms:    terms,
		ids:      make(map[string]uint32),
	}
}

func (x *Extractor) internID(namespacedName string) uint32 {
	if id, ok := x.ids[namespacedName]; ok {
		return id
	}
	id := x.next
	x.ids[namespacedName] = id
	x.next++
	return id
}

// ExtractKwargs resolves the full set of variable-reference names root's
// pattern needs, transitively through any message/term references it
// contains. referenced accumulates every message name reached this way,
// across every call sharing it in a single run, for later obsolescence
// checks. It returns an error if root references a message or term that
// does not exist in the extractor's universe.
func (x *Extractor) ExtractKwargs(root *key.Key, referenced map[string]struct{}) (map[string]struct{}, error) {
	kwargs := make(map[string]struct{})
	msg := root.Message()
	if msg == nil || msg.Value == nil {
		return kwargs, nil
	}
	visiting := roaring.New()
	visiting.Add(x.internID("m:" + root.Name))
	if err := x.walkPattern(msg.Value, root, visiting, kwargs, referenced); err != nil {
		return nil, err
	}
	return kwargs, nil
}

func (x *Extractor) walkPattern(p *fluent.Pattern, root *key.Key, visiting *roaring.Bitmap, kwargs, referenced map[string]struct{}) error {
	if p == nil {
		return nil
	}
	for _, el := range p.Elements {
		if pl, ok := el.(fluent.Placeable); ok {
			if err := x.walkExpression(pl.Expression, root, visiting, kwargs, referenced); err != nil {
				return err
			}
		}
	}
	return nil
}

func (x *Extractor) walkExpression(expr fluent.Expression, root *key.Key, visiting *roaring.Bitmap, kwargs, referenced map[string]struct{}) error {
	switch e := expr.(type) {
	case fluent.VariableReference:
		kwargs[e.ID.Name] = struct{}{}

	case fluent.MessageReference:
		root.AddDependency(e.ID.Name)
		referenced[e.ID.Name] = struct{}{}
		id := x.internID("m:" + e.ID.Name)
		if visiting.Contains(id) {
			return nil // cycle: the dependency edge is recorded, don't re-descend
		}
		target, ok := x.messages[e.ID.Name]
		if !ok {
			return fmt.Errorf("placeholder: %q references unknown message %q", root.Name, e.ID.Name)
		}
		visiting.Add(id)
		defer visiting.Remove(id)
		if tmsg := target.Message(); tmsg != nil {
			if err := x.walkPattern(tmsg.Value, root, visiting, kwargs, referenced); err != nil {
				return err
			}
		}

	case fluent.TermReference:
		id := x.internID("t:" + e.ID.Name)
		if e.Arguments != nil {
			for _, pos := range e.Arguments.Positional {
				if vr, ok := pos.(fluent.VariableReference); ok {
					kwargs[vr.ID.Name] = struct{}{}
				}
			}
			for _, named := range e.Arguments.Named {
				if vr, ok := named.Value.(fluent.VariableReference); ok {
					kwargs[vr.ID.Name] = struct{}{}
				}
			}
		}
		if visiting.Contains(id) {
			return nil
		}
		target, ok := x.terms[e.ID.Name]
		if !ok {
			return fmt.Errorf("placeholder: %q references unknown term %q", root.Name, e.ID.Name)
		}
		visiting.Add(id)
		defer visiting.Remove(id)
		if tterm, ok := target.Entry.(*fluent.Term); ok {
			if err := x.walkPattern(&tterm.Value, root, visiting, kwargs, referenced); err != nil {
				return err
			}
		}

	case fluent.SelectExpression:
		if vr, ok := e.Selector.(fluent.VariableReference); ok {
			kwargs[vr.ID.Name] = struct{}{}
		} else if err := x.walkExpression(e.Selector, root, visiting, kwargs, referenced); err != nil {
			return err
		}
		for i := range e.Variants {
			if err := x.walkPattern(&e.Variants[i].Value, root, visiting, kwargs, referenced); err != nil {
				return err
			}
		}
	}
	return nil
}
