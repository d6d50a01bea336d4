package convert

import (
	derrors "git.home.luguber.info/inful/ndocs/internal/foundation/errors"
)

// AllToken expands to the full document list.
const AllToken = "all"

// UsageText is printed when no documents are given.
const UsageText = "Usage: convert <md-path|all>"

// DefaultDocuments returns the notes documents converted by "all" when the
// configuration does not list its own. Each call returns a fresh slice.
func DefaultDocuments() []string {
	return []string{
		"DiskArc/Arc/AppleLink-notes.md",
		"DiskArc/Arc/AppleSingle-notes.md",
		"DiskArc/Arc/Binary2-notes.md",
		"DiskArc/Arc/GZip-notes.md",
		"DiskArc/Arc/MacBinary-notes.md",
		"DiskArc/Arc/NuFX-notes.md",
		"DiskArc/Arc/StuffIt-notes.md",
		"DiskArc/Arc/Zip-notes.md",
		"DiskArc/Comp/LZC-notes.md",
		"DiskArc/Comp/NuLZW-notes.md",
		"DiskArc/Comp/Squeeze-notes.md",
		"DiskArc/Disk/DiskCopy-notes.md",
		"DiskArc/Disk/Nibble-notes.md",
		"DiskArc/Disk/Trackstar-notes.md",
		"DiskArc/Disk/TwoIMG-notes.md",
		"DiskArc/Disk/Unadorned-notes.md",
		"DiskArc/Disk/Woz-notes.md",
		"DiskArc/FS/CPM-notes.md",
		"DiskArc/FS/DOS-notes.md",
		"DiskArc/FS/Gutenberg-notes.md",
		"DiskArc/FS/HFS-notes.md",
		"DiskArc/FS/Hybrid-notes.md",
		"DiskArc/FS/MFS-notes.md",
		"DiskArc/FS/Pascal-notes.md",
		"DiskArc/FS/ProDOS-notes.md",
		"DiskArc/FS/RDOS-notes.md",
		"DiskArc/Multi/APM-notes.md",
		"DiskArc/Multi/CFFA-notes.md",
		"DiskArc/Multi/DOS800-notes.md",
		"DiskArc/Multi/FocusDrive-notes.md",
		"DiskArc/Multi/MacTS-notes.md",
		"DiskArc/Multi/MicroDrive-notes.md",
		"DiskArc/Multi/PPM-notes.md",
		"FileConv/Code/ApplePascal-notes.md",
		"FileConv/Code/BASIC-notes.md",
		"FileConv/Code/Disasm65-notes.md",
		"FileConv/Code/LisaAsm-notes.md",
		"FileConv/Code/MerlinAsm-notes.md",
		"FileConv/Code/OMF-notes.md",
		"FileConv/Code/SCAsm-notes.md",
		"FileConv/Doc/AppleWorks-notes.md",
		"FileConv/Doc/AWGS-notes.md",
		"FileConv/Doc/GutenbergWP-notes.md",
		"FileConv/Doc/MagicWindow-notes.md",
		"FileConv/Doc/Teach-notes.md",
		"FileConv/Generic/ResourceFork-notes.md",
		"FileConv/Gfx/BitmapFont-notes.md",
		"FileConv/Gfx/DoubleHiRes-notes.md",
		"FileConv/Gfx/Fontrix-notes.md",
		"FileConv/Gfx/GSFinderIcon-notes.md",
		"FileConv/Gfx/HiRes-notes.md",
		"FileConv/Gfx/MacPaint-notes.md",
		"FileConv/Gfx/PrintShop-notes.md",
		"FileConv/Gfx/ShapeTable-notes.md",
		"FileConv/Gfx/SuperHiRes-notes.md",
	}
}

// ExpandDocuments turns command arguments into the ordered document list.
// A leading "all" selects defaults; no arguments is a usage error.
func ExpandDocuments(args, defaults []string) ([]string, error) {
	if len(args) == 0 {
		return nil, derrors.UsageError(UsageText).Build()
	}
	if args[0] == AllToken {
		return append([]string(nil), defaults...), nil
	}
	return append([]string(nil), args...), nil
}
