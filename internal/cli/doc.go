// Package cli parses the warehoused command line into a validated
// config.Config. Flags override values from the optional HCL file.
package cli
