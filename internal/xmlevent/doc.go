// Package xmlevent turns an XML member of an OpenDocument archive into a
// flat stream of structural events.
//
// The stream distinguishes a tag written in empty form from a tag that is
// opened and closed explicitly, which the document reader needs in order to
// decide whether an element has content:
//
//	r := xmlevent.NewReader(rc)
//	for {
//	    ev, err := r.Next()
//	    if err != nil {
//	        return err
//	    }
//	    if ev.Kind == xmlevent.EOF {
//	        break
//	    }
//	    fmt.Println(ev)
//	}
//
// # Names
//
// Element and attribute names are reported as written, with their prefix,
// for example "table:table-cell". Namespace URIs are not resolved.
//
// # Text
//
// Character data is delivered untrimmed with entities resolved, including
// runs made only of white space. Callers decide where such text is layout
// and where it is content. Comments, processing instructions and directives
// are skipped.
package xmlevent
