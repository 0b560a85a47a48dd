package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

const baseURL = "http://localhost:8080/checkout"

var products = []struct {
	Name  string
	Price int
}{
	{"Кофе зерновой 1кг", 4500},
	{"Чайник заварочный", 3200},
	{"Кружка керамическая", 1200},
	{"Набор специй", 900},
	{"Шоколад тёмный", 600},
}

func main() {
	for {
		var wg sync.WaitGroup
		for range rand.Intn(5) + 1 {
			wg.Go(doCheckout)
		}
		wg.Wait()
		time.Sleep(200 * time.Millisecond)
	}
}

func randomID(length int) string {
	chars := []rune("abcdefghijklmnopqrstuvwxyz0123456789")
	id := make([]rune, length)
	for i := range id {
		id[i] = chars[rand.Intn(len(chars))]
	}
	return string(id)
}

func doCheckout() {
	items := make([]map[string]any, 0, 3)
	for range rand.Intn(3) + 1 {
		p := products[rand.Intn(len(products))]
		items = append(items, map[string]any{
			"name":       p.Name,
			"unit_price": p.Price,
			"quantity":   rand.Intn(3) + 1,
		})
	}

	body := map[string]any{
		"submission_token": randomID(24),
		"items":            items,
		"shipping": map[string]any{
			"name":     "Тестовый Покупатель",
			"phone":    "+375291234567",
			"city":     "Минск",
			"street":   "пр. Независимости, 1",
			"provider": "courier",
		},
		"delivery_cost":  500,
		"payment_method": "cash",
	}

	data, err := json.Marshal(body)
	if err != nil {
		fmt.Println("marshal error:", err)
		return
	}

	resp, err := http.Post(baseURL, "application/json", bytes.NewReader(data))
	if err != nil {
		fmt.Println("request error:", err)
		return
	}
	defer resp.Body.Close()
	fmt.Println("status:", resp.StatusCode)
}
