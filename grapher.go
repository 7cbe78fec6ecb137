// Package grapher provides a declarative chart builder that compiles to the
// JSON configuration format of the remote grapher site, and translates
// existing remote configurations back into builder code.
//
// Usage:
//
//	data, _ := frame.FromColumns([]string{"year", "population"}, ...)
//	chart := grapher.NewChart(data).
//	    Encode(
//	        grapher.X("year"),
//	        grapher.Y("population"),
//	    ).
//	    Label(
//	        grapher.Title("Too many Koalas?"),
//	    )
//	cfg, err := engine.Compile(chart)
//
// The builder accumulates the chart description purely as data, with no
// knowledge of how the remote renderer draws charts. Compilation and the
// reverse translation live in the engine package; fetching live configs
// and datasets lives in the site package.
package grapher
