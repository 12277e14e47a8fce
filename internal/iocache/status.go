package iocache

import (
	"fmt"
	"io"

	"github.com/lootlens/lootlens/schema"
)

// PrintStoreStatus prints item store status information.
func PrintStoreStatus(w io.Writer, status schema.StoreStatus) {
	_, _ = fmt.Fprintf(w, "Store Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Items: %d\n", status.TotalItems)
	_, _ = fmt.Fprintf(w, "Priced Items: %d\n", status.PricedItems)
	if !status.LastPriceUpdate.IsZero() {
		_, _ = fmt.Fprintf(w, "Last Price Update: %s\n", status.LastPriceUpdate.Format("2006-01-02 15:04:05"))
	}
	_, _ = fmt.Fprintf(w, "Refresh Status: %s\n", status.Refresh.Status)
	if !status.Refresh.LastUpdated.IsZero() {
		_, _ = fmt.Fprintf(w, "Last Refresh: %s\n", status.Refresh.LastUpdated.Format("2006-01-02 15:04:05"))
	}
	_, _ = fmt.Fprintf(w, "Settings: %d\n", status.TotalSettings)
}
