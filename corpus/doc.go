// Package corpus provides the assembly pipeline operations over
// statement lists: persistence, grounding and site mapping, preassembly,
// and the filter/transform steps used to shape an assembled corpus for a
// modeling target.
//
// Operations take and return []statement.Statement so they chain
// naturally:
//
//	stmts, _ = corpus.Load("raw.json.gz")
//	stmts = corpus.FilterNoHypothesis(stmts)
//	stmts, _ = corpus.MapGrounding(stmts)
//	stmts, _ = corpus.RunPreassembly(ctx, stmts, corpus.PreassemblyOptions{})
//	_ = corpus.Save("assembled.json", stmts)
//
// Every operation logs its input and output counts through the package
// logger; use SetLogger to route them.
package corpus
