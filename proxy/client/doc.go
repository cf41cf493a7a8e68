// Package client implements a websocket client for the pricing proxy. It is
// used by the price commands of the CLI and works against any deployment of
// the proxy.
//
// Usage Example:
//
//	c, err := client.Dial("localhost:8080", 5*time.Second)
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	res, err := c.Price(client.Request{
//		Spot: 100, Strike: 95, Rate: 0.01, Volatility: 0.2, Maturity: 0.5,
//		Type: "put", Steps: 500,
//	})
//
// Results carry no request id. The proxy answers in request order, which is
// why a PricerClient serializes its calls; use several clients for parallel
// load. Error messages of the proxy are returned as errors wrapping ErrProxy.
package client
