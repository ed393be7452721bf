package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammiz/internal/ui/theme"
)

// BannerArt is the block-letter title shared by the splash and home screens.
const BannerArt = `  ██████╗ ██████╗  █████╗ ███╗   ███╗███╗   ███╗██╗███████╗
 ██╔════╝ ██╔══██╗██╔══██╗████╗ ████║████╗ ████║██║╚══███╔╝
 ██║  ███╗██████╔╝███████║██╔████╔██║██╔████╔██║██║  ███╔╝
 ██║   ██║██╔══██╗██╔══██║██║╚██╔╝██║██║╚██╔╝██║██║ ███╔╝
 ╚██████╔╝██║  ██║██║  ██║██║ ╚═╝ ██║██║ ╚═╝ ██║██║███████╗
  ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝╚═╝     ╚═╝╚═╝     ╚═╝╚═╝╚══════╝`

// BannerCompact replaces BannerArt on narrow terminals.
const BannerCompact = "G R A M M I Z"

// bannerMinWidth is the narrowest width that fits BannerArt.
const bannerMinWidth = 62

// RenderBanner returns the GRAMMIZ banner styled in the primary color.
// Uses a compact fallback for terminals narrower than bannerMinWidth.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(BannerCompact)
	}
	return style.Render(BannerArt)
}
