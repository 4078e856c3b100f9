package rowcalc_test

import (
	"context"
	"fmt"

	"github.com/sandrolain/rowcalc"
	"github.com/sandrolain/rowcalc/pkg/store"
)

func ExampleEval() {
	result, err := rowcalc.Eval(`SUM(1, 2, 3) * 2`, nil)
	if err != nil {
		panic(err)
	}
	fmt.Println(result)
	// Output: 12
}

func ExampleEngine_Evaluate() {
	engine := rowcalc.New()

	row := map[string]interface{}{
		"price": 19.99,
		"qty":   3.0,
	}
	result, err := engine.Evaluate(context.Background(), `ROUND({price} * {qty}, 2)`, row)
	if err != nil {
		panic(err)
	}
	fmt.Println(result)
	// Output: 59.97
}

func ExampleEngine_Evaluate_lookup() {
	products := store.NewMemory(
		store.Entity{"id": "p1", "name": "Widget", "price": 9.5},
	)
	engine := rowcalc.New(rowcalc.WithStore(products))

	result, err := engine.Evaluate(context.Background(),
		`CONCAT(LOOKUP({product}, "name"), ": ", LOOKUP({product}, "price"))`,
		map[string]interface{}{"product": "p1"})
	if err != nil {
		panic(err)
	}
	fmt.Println(result)
	// Output: Widget: 9.5
}
