/*
Package router implements ordered, first-match-wins intent dispatch.

An intent matches when any of its triggers is a substring of the normalized input.
Matching is substring containment rather than token equality, so the order of the table
encodes priority: specific triggers ("todo ekle") must come before general ones ("todo").

# Usage

	r := router.New([]domain.Intent{
		{Name: "greeting", Triggers: []string{"selam"}, Handler: domain.StaticReply("Selam!")},
	})

	reply, ok := r.Dispatch(ctx, "selam dünya")
	if !ok {
		// fall through to FAQ / fallback
	}
*/
package router
