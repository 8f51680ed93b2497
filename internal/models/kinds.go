package models

import (
	"fmt"
	"strings"
)

// BlockType is the closed set of block kinds. Values are the tokens
// stored in blocks.block_type.
type BlockType string

const (
	BlockParagraph      BlockType = "paragraph"
	BlockHeading1       BlockType = "heading_h1"
	BlockHeading2       BlockType = "heading_h2"
	BlockHeading3       BlockType = "heading_h3"
	BlockHeading4       BlockType = "heading_h4"
	BlockHeading5       BlockType = "heading_h5"
	BlockHeading6       BlockType = "heading_h6"
	BlockCode           BlockType = "code_block"
	BlockQuote          BlockType = "quote"
	BlockOrderedList    BlockType = "ordered_list"
	BlockUnorderedList  BlockType = "unordered_list"
	BlockListItem       BlockType = "list_item"
	BlockTable          BlockType = "table"
	BlockTableRow       BlockType = "table_row"
	BlockTableCell      BlockType = "table_cell"
	BlockHorizontalRule BlockType = "horizontal_rule"
)

// HeadingBlock returns the heading type for level 1..6.
func HeadingBlock(level int) (BlockType, error) {
	if level < 1 || level > 6 {
		return "", fmt.Errorf("heading level out of range: %d", level)
	}
	return BlockType(fmt.Sprintf("heading_h%d", level)), nil
}

// HeadingLevel returns the level of a heading type, or 0 for other types.
func (t BlockType) HeadingLevel() int {
	switch t {
	case BlockHeading1:
		return 1
	case BlockHeading2:
		return 2
	case BlockHeading3:
		return 3
	case BlockHeading4:
		return 4
	case BlockHeading5:
		return 5
	case BlockHeading6:
		return 6
	default:
		return 0
	}
}

// Valid reports whether t is a known block type.
func (t BlockType) Valid() bool {
	switch t {
	case BlockParagraph,
		BlockHeading1, BlockHeading2, BlockHeading3, BlockHeading4, BlockHeading5, BlockHeading6,
		BlockCode, BlockQuote,
		BlockOrderedList, BlockUnorderedList, BlockListItem,
		BlockTable, BlockTableRow, BlockTableCell,
		BlockHorizontalRule:
		return true
	default:
		return false
	}
}

// ParseBlockType maps a stored token to a BlockType. The short heading
// form "heading_N" is accepted and normalized to "heading_hN".
func ParseBlockType(s string) (BlockType, error) {
	t := BlockType(s)
	if t.Valid() {
		return t, nil
	}
	if rest, ok := strings.CutPrefix(s, "heading_"); ok && len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
		return HeadingBlock(int(rest[0] - '0'))
	}
	return "", fmt.Errorf("unknown block type %q", s)
}

// LinkType distinguishes what a link points at.
type LinkType string

const (
	LinkNote             LinkType = "note_link"
	LinkBlockReference   LinkType = "block_reference"
	LinkDatabaseRelation LinkType = "database_relation"
)

// Valid reports whether t is a known link type.
func (t LinkType) Valid() bool {
	switch t {
	case LinkNote, LinkBlockReference, LinkDatabaseRelation:
		return true
	default:
		return false
	}
}

// TargetsBlock reports whether links of this type carry target_block_id
// rather than target_note_id.
func (t LinkType) TargetsBlock() bool {
	switch t {
	case LinkBlockReference:
		return true
	case LinkNote, LinkDatabaseRelation:
		return false
	default:
		return false
	}
}

// ParseLinkType maps a stored token to a LinkType.
func ParseLinkType(s string) (LinkType, error) {
	t := LinkType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown link type %q", s)
	}
	return t, nil
}

// FileType is the coarse category of an attachment payload.
type FileType string

const (
	FileImage    FileType = "image"
	FileVideo    FileType = "video"
	FileAudio    FileType = "audio"
	FileDocument FileType = "document"
	FileOther    FileType = "other"
)

// Valid reports whether t is a known file type.
func (t FileType) Valid() bool {
	switch t {
	case FileImage, FileVideo, FileAudio, FileDocument, FileOther:
		return true
	default:
		return false
	}
}

// ParseFileType maps a stored token to a FileType.
func ParseFileType(s string) (FileType, error) {
	t := FileType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown file type %q", s)
	}
	return t, nil
}

// FileTypeForMime derives the category from a MIME type.
func FileTypeForMime(mime string) FileType {
	base, _, _ := strings.Cut(mime, ";")
	switch {
	case strings.HasPrefix(base, "image/"):
		return FileImage
	case strings.HasPrefix(base, "video/"):
		return FileVideo
	case strings.HasPrefix(base, "audio/"):
		return FileAudio
	case base == "application/pdf",
		strings.HasPrefix(base, "text/"),
		strings.Contains(base, "document"),
		strings.Contains(base, "msword"),
		strings.Contains(base, "spreadsheet"),
		strings.Contains(base, "presentation"):
		return FileDocument
	default:
		return FileOther
	}
}
