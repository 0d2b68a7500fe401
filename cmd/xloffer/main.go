// Command xloffer renews offer spreadsheets: new offer number, dates,
// Vigencia range and license prices.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
