// Package output implements the template based rendering used by the
// terminal and text formats.
//
// # Rendering Pipeline
//
//  1. Commands return structured data (excluder.Report, excluder.Preview,
//     excluder.Plan, excluder.Status, defines.Explanation, rules.RuleSet)
//  2. The renderer picks the template for the value's type and executes it
//  3. Template output contains XML-like style tags (e.g., <FilePath>x</FilePath>)
//  4. Lipbalm expands the tags to ANSI codes, or strips them in no-color mode
//  5. Final output is written to the provided io.Writer
//
// # Template System
//
// Templates live in templates/ and use text/template with style tags:
//
//	<FilePath>{{esc .Path}}</FilePath> <Excluded>EXCLUDED</Excluded>
//
// Values that may contain '&' or '<' go through esc so the tag parser keeps
// working. Style tags correspond to entries in styles.StyleRegistry.
package output
