package menu

import (
	"os"

	"github.com/beevik/etree"

	"github.com/arthur-debert/treesweep/pkg/cleanup"
	"github.com/arthur-debert/treesweep/pkg/errors"
	"github.com/arthur-debert/treesweep/pkg/logging"
)

// Item is one slot of a menu: either a cleanup reference or a separator.
type Item struct {
	ActionID  string
	Separator bool
}

// Menu is one named menu of the layout.
type Menu struct {
	Name  string
	Items []Item
}

// Layout is the parsed XML UI description (treesweepui.rc). It declares
// which cleanups appear in which menu and in what order, decoupling
// presentation from the collection's insertion order.
type Layout struct {
	Menus []Menu
}

// ParseLayout parses an XML UI description:
//
//	<ui>
//	  <menu name="Clean Up">
//	    <action id="cleanup_open_file_manager"/>
//	    <separator/>
//	    <action id="cleanup_hard_delete"/>
//	  </menu>
//	</ui>
func ParseLayout(data []byte) (*Layout, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(err, errors.ErrLayoutParse, "invalid layout XML")
	}

	root := doc.SelectElement("ui")
	if root == nil {
		return nil, errors.New(errors.ErrLayoutParse, "layout XML has no <ui> root element")
	}

	layout := &Layout{}
	for _, menuEl := range root.SelectElements("menu") {
		menu := Menu{Name: menuEl.SelectAttrValue("name", "")}
		if menu.Name == "" {
			return nil, errors.New(errors.ErrLayoutParse, "<menu> element without name attribute")
		}

		for _, child := range menuEl.ChildElements() {
			switch child.Tag {
			case "action":
				id := child.SelectAttrValue("id", "")
				if id == "" {
					return nil, errors.Newf(errors.ErrLayoutParse, "<action> without id in menu %q", menu.Name)
				}
				menu.Items = append(menu.Items, Item{ActionID: id})
			case "separator":
				menu.Items = append(menu.Items, Item{Separator: true})
			default:
				return nil, errors.Newf(errors.ErrLayoutParse, "unexpected element <%s> in menu %q", child.Tag, menu.Name)
			}
		}

		layout.Menus = append(layout.Menus, menu)
	}

	return layout, nil
}

// LoadLayout reads a layout file from disk. A missing file yields the
// default layout rather than an error.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger := logging.GetLogger("menu")
			logger.Debug().Str("path", path).Msg("No layout file, using default")
			return DefaultLayout(), nil
		}
		return nil, errors.Wrapf(err, errors.ErrLayoutParse, "cannot read layout file %s", path)
	}
	return ParseLayout(data)
}

// DefaultLayout returns the built-in menu arrangement for the standard
// cleanup set.
func DefaultLayout() *Layout {
	return &Layout{
		Menus: []Menu{
			{
				Name: "Clean Up",
				Items: []Item{
					{ActionID: cleanup.StdOpenFileManager},
					{ActionID: cleanup.StdOpenTerminal},
					{Separator: true},
					{ActionID: cleanup.StdCompress},
					{ActionID: cleanup.StdMakeClean},
					{ActionID: cleanup.StdDeleteTrash},
					{Separator: true},
					{ActionID: cleanup.StdMoveToTrash},
					{ActionID: cleanup.StdHardDelete},
				},
			},
		},
	}
}

// Section is one separator-delimited run of cleanups in a resolved menu.
type Section []*cleanup.Cleanup

// ResolvedMenu is a menu with layout ids resolved against the registry.
type ResolvedMenu struct {
	Name     string
	Sections []Section
}

// Resolve maps the layout onto the currently registered cleanups. Ids
// that are not registered are skipped; empty sections and empty menus are
// dropped so separators never dangle.
func (l *Layout) Resolve(reg *Registry) []ResolvedMenu {
	logger := logging.GetLogger("menu")

	var menus []ResolvedMenu
	for _, menu := range l.Menus {
		resolved := ResolvedMenu{Name: menu.Name}
		var section Section

		flush := func() {
			if len(section) > 0 {
				resolved.Sections = append(resolved.Sections, section)
				section = nil
			}
		}

		for _, item := range menu.Items {
			if item.Separator {
				flush()
				continue
			}
			c := reg.Get(item.ActionID)
			if c == nil {
				logger.Debug().Str("id", item.ActionID).Str("menu", menu.Name).Msg("Layout references unregistered cleanup, skipping")
				continue
			}
			section = append(section, c)
		}
		flush()

		if len(resolved.Sections) > 0 {
			menus = append(menus, resolved)
		}
	}

	return menus
}
