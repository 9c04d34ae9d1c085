/*
Package source loads the strain catalog from wherever the registry lives.

# Sources

A source is chosen by a single configured string, parsed by ParseSpec:

	literal                      built-in reference collection
	file:<path>                  local CSV file
	http(s)://...                remote CSV file
	s3://<bucket>/<key>          CSV object in S3
	sqlite://<path>?table=<t>    SQLite table
	postgres://...?table=<t>     Postgres table
	store:<name>                 snapshot from the snapshot store

Delimited sources go through catalog.DecodeCSV, so a file, an HTTP body and
an S3 object all accept the same column layout. SQL sources read every row of the
named table, with its columns in the registry order.

# Loading Once

The server and the CLI never call a Source directly. They wrap it in a Loader,
which runs the source at most once and hands every caller the same result:

	src, err := source.ParseSpec("file:souchier.csv", source.Options{})
	if err != nil {
	    log.Fatal(err)
	}
	loader := source.NewLoader(src, logger)

	cat, err := loader.Load(ctx)

A failed first load is remembered as well. There is no retry within a
session; restarting the process is the way to pick up a fixed registry.

# Load Errors

Every failure, including a table with no rows, comes back as a *LoadError
naming the source:

	var loadErr *source.LoadError
	if errors.As(err, &loadErr) {
	    fmt.Println("registry unavailable:", loadErr.Source)
	}

An empty table wraps ErrEmptyCatalog. HTTP routes answer 503, the websocket
session refuses to start, and the export command exits non-zero.
*/
package source
