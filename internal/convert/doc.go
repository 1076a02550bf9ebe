// Package convert turns a picked input file and a target container format into
// a single ffmpeg invocation and classifies how it ended.
//
// The flow is NewRequest (derive or sanitize the output path), Validate (run by
// the caller before converting) and Converter.Convert, which launches
// `<binary> -y -i <input> <output>`, drains the encoder's stderr while it runs
// and returns an Outcome. Successful outcomes are also pushed to the
// Converter's Notifier listeners.
package convert
