package minibot_test

import (
	"context"
	"fmt"

	"github.com/aretw0/minibot"
)

func ExampleBot_Respond() {
	bot := minibot.New()
	ctx := context.Background()

	fmt.Println(bot.Respond(ctx, "hesapla 2^3^2"))
	fmt.Println(bot.Respond(ctx, "hesapla 1/0"))
	fmt.Println(bot.Respond(ctx, "todo ekle süt"))
	fmt.Println(bot.Respond(ctx, "todo ekle"))
	fmt.Println(bot.Respond(ctx, "todo liste"))
	// Output:
	// Sonuç: 512
	// Hesaplanamadı: sıfıra bölünemez
	// Eklendi : süt
	// Ne ekleyeyim? Örn: 'todo ekle sunum hazırla'
	// Yapılacaklar:
	// - 1. süt
}
