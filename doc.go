// Package rxcore is a streaming regular expression matcher built around a
// compiled opcode tape, a sliding input window, and a fast-skip engine
// that jumps the cursor between candidate offsets instead of probing every
// byte. It is designed to match against an open stream without buffering
// the whole input, refilling on demand as the caller consumes matches.
//
// Compiling a pattern into an opcode tape is handled by the compile
// subpackage; this package owns driving that tape against a Window and
// reporting results through the Matcher API below.
//
// Compile a pattern once, then drive any number of Matchers over
// different streams from it concurrently:
//
//	pat, err := rxcore.Compile(`\d{3}-\d{4}`, rxcore.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	m := rxcore.New(pat, file, rxcore.DefaultOptions())
//	for {
//	    res, err := m.Find()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if !res.Matched() {
//	        break
//	    }
//	    fmt.Printf("%d-%d: %s\n", res.Begin(), res.EndOffset(), res.Text())
//	}
//
// Indentation-sensitive patterns use the \i, \j, and \k escapes to mean
// "this line is indented relative to the last", "dedented", and "at the
// same indentation as the current level":
//
//	pat := rxcore.MustCompile(`\idef \w+:`, rxcore.DefaultOptions())
package rxcore
