package tabular

import "github.com/als-project/als/alserr"

func errColumnLengthMismatch(name string, got, want int) error {
	return alserr.New(alserr.KindSemantic, "column %q has %d values, expected %d", name, got, want)
}
