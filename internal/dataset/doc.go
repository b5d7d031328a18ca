// Package dataset loads, converts and preprocesses handwritten digit records.
//
// Records come from two interchangeable on-disk representations:
//
//	Text (portable, slow):
//	  target,p1,p2,...,p784\n          one record per line, no bias column
//
//	Binary (machine-local, fast):
//	  [8 bytes: target (int64, native byte order)]
//	  [785 × 8 bytes: inputs (float64, native byte order)]
//	  ... repeated, no header, no length prefix
//
// The binary form is a cache. It is written after a successful text load and
// read back on later runs of the same machine; it is not meant to travel
// between machines with different byte orders.
//
// Typical pipeline:
//
//	raws, err := dataset.LoadBinary(binPath)
//	if err != nil {
//	    raws, err = dataset.LoadText(csvPath, 60000)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := dataset.Normalize(raws); err != nil {
//	        log.Fatal(err)
//	    }
//	    _ = dataset.SaveBinary(binPath, raws) // cache for next time
//	}
//	records := dataset.ToRecords(raws)
package dataset
