package widgets

import "github.com/go-drift/dtkit/pkg/dom"

// Event types emitted by the components.
const (
	EventCheckboxChange = "dt-checkbox-change"
	EventPopinOpen      = "popin-open"
	EventPopinClose     = "popin-close"
	EventPopinItemClick = "popin-item-click"
	EventModalOpen      = "modal-open"
	EventModalClose     = "modal-close"
	EventToastDismiss   = "dt-toast-dismiss"
	EventTooltipShow    = "dt-tooltip-show"
	EventTooltipHide    = "dt-tooltip-hide"
	EventButtonClick    = "dt-button-click"
	EventBoxDismiss     = "dt-box-dismiss"
	EventThemeChange    = "theme-changed"
)

// EventTypes lists every component event type.
var EventTypes = []string{
	EventCheckboxChange,
	EventPopinOpen,
	EventPopinClose,
	EventPopinItemClick,
	EventModalOpen,
	EventModalClose,
	EventToastDismiss,
	EventTooltipShow,
	EventTooltipHide,
	EventButtonClick,
	EventBoxDismiss,
	EventThemeChange,
}

// Key names shared by keyboard handlers.
const (
	KeyEscape    = "Escape"
	KeyEnter     = "Enter"
	KeySpace     = " "
	KeyArrowUp   = "ArrowUp"
	KeyArrowDown = "ArrowDown"
)

// Sizes accepted by most components.
var Sizes = []string{"sm", "md", "lg"}

// Variants is the standard colour palette.
var Variants = []string{"primary", "secondary", "success", "danger", "warning", "info", "light", "dark"}

// when returns name if cond holds.
func when(cond bool, name string) string {
	if cond {
		return name
	}
	return ""
}

// unless returns prefix+value unless value equals def.
func unless(value, def, prefix string) string {
	if value == def {
		return ""
	}
	return prefix + value
}

// cloneAll deep-copies template nodes for one render.
func cloneAll(nodes []*dom.Node) []*dom.Node {
	out := make([]*dom.Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n.Clone())
		}
	}
	return out
}

func isActivationKey(key string) bool {
	return key == KeyEnter || key == KeySpace
}
