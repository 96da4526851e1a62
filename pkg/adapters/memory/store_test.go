package memory_test

import (
	"testing"

	"github.com/aretw0/minibot/pkg/adapters/memory"
	"github.com/aretw0/minibot/pkg/ports"
)

func TestMemoryTaskStore_Contract(t *testing.T) {
	ports.RunTaskStoreContract(t, func(t *testing.T) ports.TaskStore {
		return memory.NewTaskStore()
	})
}

func TestMemoryFactory_IsolatesSessions(t *testing.T) {
	factory := memory.Factory()
	a := factory("a")
	b := factory("b")

	ctx := t.Context()
	if err := a.Append(ctx, "only in a"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	items, err := b.Items(ctx)
	if err != nil {
		t.Fatalf("Items failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected session b to be empty, got %v", items)
	}
}
