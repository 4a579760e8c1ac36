// Package rules provides the built-in lint rules for gobqlint.
//
// # Rule Granularities
//
// Rules are grouped by the unit of input they inspect:
//
//   - Physical lines:
//
//   - E101: tabs_or_spaces - Indentation mixes spaces and tabs
//
//   - W191: tabs_obsolete - Indentation contains tabs
//
//   - W291, W293: trailing_whitespace - Trailing whitespace
//
//   - W391: trailing_blank_lines - Blank line at end of file
//
//   - W292: missing_newline - No newline at end of file
//
//   - E501: maximum_line_length - Line too long
//
//   - W000: dont_use_hyphen_comment - "--" comment instead of "#"
//
//   - Tokens:
//
//   - W000: use_upper_case_keyword - Keyword not in upper case
//
//   - W000: use_explicit_alias - Alias without AS
//
//   - Logical lines:
//
//   - E201, E202, E203: extraneous_whitespace - Whitespace inside brackets
//
//   - E221-E224: whitespace_around_operator - Runs of spaces or tabs near operators
//
//   - E231: missing_whitespace - Missing space after comma
//
//   - E241, E242: whitespace_after_comma - Extra whitespace after comma
//
// All rules register with lint.DefaultRegistry when the package is
// imported.
package rules
