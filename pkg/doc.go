// Package pkg contains the library behind the datachecker CLI: schema-driven
// validation of tabular datasets with a structured, exportable QA log.
//
// # Package Structure
//
//   - validator: high-level API driving a validation session (start here)
//   - schema: schema model, file-format loaders and the normalizer
//   - checks: constraint-to-check compilation and predicates
//   - backend: check evaluation against a dataset
//   - dataset: the in-memory columnar table and CSV loading
//   - qalog: the QA log, description humanizing and custom-check folding
//   - export: QA log exporters (json, yaml, csv, txt, html)
//   - types: shared data model and error taxonomy
//   - logger: structured logger construction
//
// # Getting Started
//
// For most use cases, CheckAndExport runs the whole pipeline:
//
//	ds, err := dataset.ReadCSV("data.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	session, err := validator.CheckAndExport("schema.yaml", ds, "qa_log.json", "json")
//	if err != nil {
//	    // hard-check failures land here, after the log is on disk
//	}
//	fmt.Println(session.Log.String())
//
// # Custom Checks
//
// Table-wide predicates run once per row and fold into a single log entry:
//
//	custom := map[string]checks.RowPredicate{
//	    "adult_income_check": func(row map[string]any) bool {
//	        age, _ := row["age"].(int64)
//	        return age >= 18
//	    },
//	}
//	session, err := validator.CheckAndExport(schema, ds, file, format,
//	    validator.WithCustomChecks(custom))
//
// # Error Handling
//
// Data problems never abort a session; they become QA log entries. Errors
// returned from the validator are configuration mistakes (bad schema shape,
// malformed constraints, unknown formats) or, after export, the hard-check
// policy verdict.
package pkg
