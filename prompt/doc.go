// Package prompt renders work items into the text sent to a language model.
//
// Each node kind has a scaffold template with a role preamble, the task
// text, the run input, and one section per dependency value. Scaffolds are
// plain text/template sources held in a Catalog; callers can override any of
// them with NewCatalog, and unknown kinds fall back to the general scaffold.
package prompt
