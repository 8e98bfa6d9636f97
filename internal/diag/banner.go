package diag

import (
	"fmt"
	"io"

	"github.com/nicexipi/vecindex/internal/vecindex"
)

// PrintStartupBanner writes a one-line summary of the running
// index to w: row count, dimension, and the active SIMD capability
// string, the way a long-lived service logs its configuration once at
// boot for later debugging.
func PrintStartupBanner(w io.Writer, idx *vecindex.Index) {
	fmt.Fprintf(w, "vecindex: dim=%d rows=%d simd=%q\n", idx.Dim(), idx.Len(), vecindex.SIMDCapability())
}
