package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/joripage/lob-engine/pkg/engine"
	"github.com/joripage/lob-engine/pkg/orderbook"
	"github.com/joripage/lob-engine/pkg/report"
)

const (
	numOrders = 1_000_000
	minPrice  = 100.0
	maxPrice  = 200.0
	minQty    = 1
	maxQty    = 100
)

func randomOrder(e *engine.MatchingEngine) orderbook.Order {
	side := orderbook.BUY
	if rand.Intn(2) == 0 {
		side = orderbook.SELL
	}
	price := minPrice + rand.Float64()*(maxPrice-minPrice)
	qty := int64(rand.Intn(maxQty-minQty+1) + minQty)

	return e.NewOrder(side, float64(int(price*100))/100, qty)
}

func main() {
	for _, levels := range []int{1, 0} {
		run(levels)
	}
}

func run(maxLevels int) {
	e := engine.NewMatchingEngine("ABC", engine.WithMaxLevels(maxLevels))

	tally := &report.Tally{}
	printed := 0
	e.SetFillCallback(report.Fanout(tally.OnFill, func(orderID uint64, price float64, qty int64) {
		if printed < 5 {
			printed++
			log.Printf("Match: order[%d] @ %.2f Qty %d\n", orderID, price, qty)
		}
	}))

	start := time.Now()
	for i := 0; i < numOrders; i++ {
		if _, err := e.HandleOrder(randomOrder(e)); err != nil {
			log.Fatalf("handle order: %v", err)
		}
	}
	elapsed := time.Since(start)

	fmt.Println("--------")
	fmt.Printf("Max Levels       : %d\n", maxLevels)
	fmt.Printf("Total Orders     : %d\n", numOrders)
	fmt.Printf("Total Matches    : %d\n", tally.Count())
	fmt.Printf("Total Matched Qty: %d\n", tally.Qty())
	fmt.Printf("Resting Orders   : %d\n", e.Book().Len())
	fmt.Printf("Time Taken       : %s\n", elapsed)
}
