// Package parallel provides small helpers for goroutine fan-out.
package parallel

import "sync"

// ErrorCollector keeps the first error reported by a group of goroutines.
// The zero value is ready to use; SetError may be called concurrently.
//
//	var ec parallel.ErrorCollector
//	for _, prec := range precs {
//	    wg.Add(1)
//	    go func(p uint) {
//	        defer wg.Done()
//	        ec.SetError(probe(p))
//	    }(prec)
//	}
//	wg.Wait()
//	if err := ec.Err(); err != nil { ... }
type ErrorCollector struct {
	once sync.Once
	err  error
}

// SetError records err unless an error was already recorded. Nil errors
// are ignored. Safe for concurrent use.
func (c *ErrorCollector) SetError(err error) {
	if err != nil {
		c.once.Do(func() {
			c.err = err
		})
	}
}

// Err returns the first recorded error, or nil. Call after the goroutines
// have been waited for.
func (c *ErrorCollector) Err() error {
	return c.err
}

// Reset prepares the collector for reuse. Not safe while goroutines still
// hold the collector.
func (c *ErrorCollector) Reset() {
	c.once = sync.Once{}
	c.err = nil
}
