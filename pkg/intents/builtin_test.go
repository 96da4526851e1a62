package intents_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/minibot/pkg/adapters/memory"
	"github.com/aretw0/minibot/pkg/domain"
	"github.com/aretw0/minibot/pkg/intents"
	"github.com/aretw0/minibot/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2026, 10, 18, 14, 5, 0, 0, time.UTC)
}

func newRouter(t *testing.T) (*router.Router, *memory.TaskStore) {
	t.Helper()
	tasks := memory.NewTaskStore()
	r := router.New(intents.Builtin(intents.Config{
		Catalog: intents.Default(),
		Tasks:   tasks,
		Now:     fixedClock,
	}))
	return r, tasks
}

func dispatch(t *testing.T, r *router.Router, text string) string {
	t.Helper()
	reply, ok := r.Dispatch(context.Background(), text)
	require.True(t, ok, "expected %q to match an intent", text)
	return reply
}

func TestBuiltin_Order(t *testing.T) {
	table := intents.Builtin(intents.Config{Tasks: memory.NewTaskStore()})
	names := make([]string, 0, len(table))
	for _, intent := range table {
		names = append(names, intent.Name)
		assert.NotEmpty(t, intent.Triggers, intent.Name)
		assert.NotNil(t, intent.Handler, intent.Name)
	}
	assert.Equal(t, intents.Order, names)
}

func TestBuiltin_StaticReplies(t *testing.T) {
	r, _ := newRouter(t)

	assert.Equal(t, "Selam! Ben mini chatbot 'yardım' yazabilirsin.", dispatch(t, r, "merhaba"))
	assert.Contains(t, dispatch(t, r, "yardım"), "Komutlar:")
	assert.Contains(t, dispatch(t, r, "kimsin"), "kural tabanlı")
	assert.Contains(t, dispatch(t, r, "fıkra anlat"), "fan(atik)")
}

func TestBuiltin_Time(t *testing.T) {
	r, _ := newRouter(t)
	assert.Equal(t, "Şu an: 18.10.2026 14:05", dispatch(t, r, "saat kaç"))
}

func TestBuiltin_Calc(t *testing.T) {
	r, _ := newRouter(t)

	tests := []struct {
		text string
		want string
	}{
		{"hesapla 2+2*3", "Sonuç: 8"},
		{"hesapla 2^3^2", "Sonuç: 512"},
		{"hesapla 10/4", "Sonuç: 2.5"},
		{"hesapla", "Sonuç: 0"},
		{"hesapla 1/0", "Hesaplanamadı: sıfıra bölünemez"},
		{"hesapla 1%0", "Hesaplanamadı: sıfıra bölünemez"},
		{"hesapla x", "Hesaplanamadı: ifade desteklenmiyor (sütun 1)"},
		{"hesapla 2+", "Hesaplanamadı: ifade anlaşılamadı (sütun 3)"},
		{"hesapla 7 // 2", "Hesaplanamadı: ifade desteklenmiyor (sütun 3)"},
		{"hesapla (-8)^0.5", "Hesaplanamadı: geçersiz işlem"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, dispatch(t, r, tt.text))
		})
	}
}

func TestBuiltin_CalcHooks(t *testing.T) {
	var events []*domain.EvalEvent
	hooks := domain.LifecycleHooks{
		OnEvaluate: func(ctx context.Context, e *domain.EvalEvent) { events = append(events, e) },
	}
	r := router.New(intents.Builtin(intents.Config{Tasks: memory.NewTaskStore(), Hooks: hooks}))

	dispatch(t, r, "hesapla 6*7")
	dispatch(t, r, "hesapla 1/0")

	require.Len(t, events, 2)
	assert.Equal(t, "6*7", events[0].Expression)
	assert.Equal(t, "42", events[0].Result)
	assert.Equal(t, "DivisionByZero", events[1].ErrorKind)
}

func TestBuiltin_TaskRoundTrip(t *testing.T) {
	r, tasks := newRouter(t)
	ctx := context.Background()

	assert.Equal(t, "Eklendi : x", dispatch(t, r, "todo ekle x"))
	assert.Equal(t, "Eklendi : y", dispatch(t, r, "yapılacak ekle y"))

	items, err := tasks.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, items)

	assert.Equal(t, "Yapılacaklar:\n- 1. x\n- 2. y", dispatch(t, r, "todo liste"))

	assert.Equal(t, "Tümü silindi", dispatch(t, r, "hepsini sil"))
	assert.Equal(t, "Yapılacaklar boş.", dispatch(t, r, "todo"))
}

func TestBuiltin_ClearIsNotShadowedByList(t *testing.T) {
	r, tasks := newRouter(t)

	dispatch(t, r, "todo ekle x")
	assert.Equal(t, "Tümü silindi", dispatch(t, r, "todo sıfırla"))

	items, err := tasks.Items(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestBuiltin_AddTaskWithoutArgument(t *testing.T) {
	r, tasks := newRouter(t)
	ctx := context.Background()

	dispatch(t, r, "todo ekle mevcut")
	before, err := tasks.Items(ctx)
	require.NoError(t, err)

	for _, text := range []string{"todo ekle", "todo ekle   ", "yapilacak ekle"} {
		assert.Equal(t, "Ne ekleyeyim? Örn: 'todo ekle sunum hazırla'", dispatch(t, r, text))
	}

	after, err := tasks.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

// failingStore rejects every write.
type failingStore struct {
	memory.TaskStore
}

func (*failingStore) Append(context.Context, string) error {
	return errors.New("disk full")
}

func TestBuiltin_StoreFailureBecomesDiagnostic(t *testing.T) {
	r := router.New(intents.Builtin(intents.Config{Tasks: &failingStore{}}))

	reply := dispatch(t, r, "todo ekle x")
	assert.Equal(t, "Bu komutta bir hata oluştu: failed to add task: disk full", reply)
}
