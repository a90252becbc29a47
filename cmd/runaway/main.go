// Command runaway оценивает температуру срабатывания теплового разгона из командной строки
package main

import (
	"fmt"
	"os"

	"runaway-service/internal/analytics"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", analytics.UserMessage(err))
		os.Exit(1)
	}
}
