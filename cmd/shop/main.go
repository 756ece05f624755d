package main

import "github.com/aussiebroadwan/shopcart/internal/shop/app"

func main() {
	app.Execute()
}
