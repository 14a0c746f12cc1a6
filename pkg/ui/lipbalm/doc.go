/*
Package lipbalm renders text carrying XML-like style tags with lipgloss.

Templates mark spans with tags named after entries of a StyleMap:

	<FilePath>Assets/DebugTools</FilePath> <Excluded>EXCLUDED</Excluded>

ExpandTags replaces each tag with its lipgloss rendering when the renderer
supports colour, and with the bare content otherwise. StripTags always
returns the bare content. Unknown tags keep their content unstyled.

Content is parsed as XML, so literal '&' and '<' must be escaped (Escape does
this for template values). Input that does not parse is returned unchanged.

# Special Tags

The <no-format> tag only renders when the terminal doesn't support color:

	<Success>Restored</Success><no-format> (ok)</no-format>
*/
package lipbalm
