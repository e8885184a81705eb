package clients

import (
	"github.com/adshao/go-binance/v2"
)

// NewBinanceClient creates a Binance REST client for the spot account API.
func NewBinanceClient(apiKey, apiSecret string) *binance.Client {
	return binance.NewClient(apiKey, apiSecret)
}
