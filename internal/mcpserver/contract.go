package mcpserver

// SyntaxContract describes the Markdown-like and wiki syntax the converter
// accepts and how each construct maps to ADF and back.
const SyntaxContract = `# adfbridge Syntax Contract

Source text may mix Markdown-like and Confluence wiki syntax. Blocks are read
one line at a time; the first rule that matches a line wins.

## Blocks

| Source line                         | ADF node                              |
|-------------------------------------|---------------------------------------|
| ` + "`h1.`" + ` .. ` + "`h6.`" + ` prefix              | heading, level from the digit          |
| ` + "`#`" + `, ` + "`##`" + `, ` + "`###`" + ` prefix              | heading level 1..3 (deeper collapses to 3) |
| four or more dashes                 | rule                                  |
| ` + "`{panel:title=T}`" + ` .. ` + "`{panel}`" + `       | info panel, bold title paragraph first |
| ` + "`- `" + ` or ` + "`* `" + ` prefix                | bulletList item (consecutive lines group) |
| ` + "`1. `" + ` (any digits, dot, space)      | orderedList item                      |
| fenced code block                   | codeBlock, raw lines, language kept    |
| ` + "`| a | b |`" + ` rows (2+ cells)         | table, first row is the header         |
| anything else non-blank             | paragraph                             |

Blank lines separate blocks and end lists. Separator rows such as
` + "`|---|---|`" + ` are skipped inside tables.

## Inline marks

- ` + "`**strong**`" + `
- ` + "`` `code` ``" + `
- ` + "`*em*`" + ` (only outside strong and code spans)

When two marked spans overlap, the one that starts first wins. Other
characters are plain text.

## Flattening ADF back to text

- Headings become ` + "`#`" + ` prefixes, list items ` + "`- `" + `, rules ` + "`---`" + `.
- Tables render as pipe rows with a ` + "`|--------|`" + ` separator after the first row.
- Marks are dropped; only the text survives.
- The result is normalized: leftover ` + "`hN.`" + ` headers, ` + "`{color}`" + ` wrappers,
  panels and checkbox glyphs (☐ ☑) are rewritten as Markdown.

## Wiki output

` + "`markdown_to_wiki`" + ` rewrites ` + "`#`" + ` headings as ` + "`hN.`" + `, bullets as ` + "`* `" + ` and
pipe tables as ` + "`||*header*||`" + ` tables. Other lines pass through unchanged.

## Workspace documents

Documents are ` + "`.md`" + ` files with optional YAML frontmatter (` + "`title`" + `, ` + "`tags`" + `).
Frontmatter is not converted. Paths use forward slashes.
`
