package council

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/Atanycosts/LLM-Council-Plus-new-api/catalog"
	"github.com/sirupsen/logrus"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// exampleCatalog holds m1..m6; m1..m3 are too small to chair and m4..m6
// have 30k context.
func exampleCatalog() *catalog.Catalog {
	var es []catalog.Entry
	for i := 1; i <= 6; i++ {
		e := catalog.Entry{
			ID:            fmt.Sprintf("m%d", i),
			Name:          fmt.Sprintf("Model %d", i),
			Provider:      "small",
			Tier:          catalog.TierStandard,
			ContextLength: 10000,
		}
		if i >= 4 {
			e.Provider = "large"
			e.ContextLength = 30000
		}
		es = append(es, e)
	}
	return catalog.New(es)
}

func subset(cat *catalog.Catalog, ids ...string) *catalog.Catalog {
	var es []catalog.Entry
	for _, id := range ids {
		if e := cat.Get(id); e != nil {
			es = append(es, *e)
		}
	}
	return catalog.New(es)
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestEngine(cat *catalog.Catalog, opts ...Option) *Engine {
	base := []Option{
		WithRand(rand.New(rand.NewPCG(7, 11))),
		WithLogger(quietLogger()),
		WithClock(func() time.Time { return fixedNow }),
	}
	e := New(append(base, opts...)...)
	e.SetCatalog(cat)
	return e
}
