package filter

import "github.com/sobirov-market/storefront/pkg/models"

// Tree дерево категорий, построенное из плоского списка по parentId.
// Порядок детей совпадает с порядком во входном списке.
type Tree struct {
	byID     map[string]*models.Category
	order    []string
	children map[string][]string
}

// NewTree строит дерево. При повторе id побеждает первая запись.
func NewTree(flat []models.Category) *Tree {
	t := &Tree{
		byID:     make(map[string]*models.Category, len(flat)),
		order:    make([]string, 0, len(flat)),
		children: make(map[string][]string),
	}

	for i := range flat {
		c := flat[i]
		if c.ID == "" {
			continue
		}
		if _, dup := t.byID[c.ID]; dup {
			continue
		}
		c.SubCategories = nil
		t.byID[c.ID] = &c
		t.order = append(t.order, c.ID)
	}

	for _, id := range t.order {
		c := t.byID[id]
		if c.IsTopLevel() {
			continue
		}
		t.children[*c.ParentID] = append(t.children[*c.ParentID], id)
	}

	return t
}

// Len количество категорий
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Get возвращает категорию по id
func (t *Tree) Get(id string) (*models.Category, bool) {
	if t == nil {
		return nil, false
	}
	c, ok := t.byID[id]
	return c, ok
}

// ChildIDs id прямых подкатегорий
func (t *Tree) ChildIDs(id string) []string {
	if t == nil {
		return nil
	}
	ids := t.children[id]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// HasChildren есть ли у категории подкатегории
func (t *Tree) HasChildren(id string) bool {
	return t != nil && len(t.children[id]) > 0
}

// Children прямые подкатегории
func (t *Tree) Children(id string) []*models.Category {
	if t == nil {
		return nil
	}
	out := make([]*models.Category, 0, len(t.children[id]))
	for _, cid := range t.children[id] {
		out = append(out, t.byID[cid])
	}
	return out
}

// Roots категории верхнего уровня
func (t *Tree) Roots() []*models.Category {
	if t == nil {
		return nil
	}
	var out []*models.Category
	for _, id := range t.order {
		if c := t.byID[id]; c.IsTopLevel() {
			out = append(out, c)
		}
	}
	return out
}

// Flat категории в исходном порядке
func (t *Tree) Flat() []models.Category {
	if t == nil {
		return nil
	}
	out := make([]models.Category, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, *t.byID[id])
	}
	return out
}

// Nested возвращает копию корней с заполненным SubCategories для ответа API.
// Подкатегории, чей родитель отсутствует в списке, не попадают в результат.
func (t *Tree) Nested() []*models.Category {
	roots := t.Roots()
	out := make([]*models.Category, 0, len(roots))
	for _, r := range roots {
		out = append(out, t.nest(r.ID, 0))
	}
	return out
}

// nest глубина ограничена числом категорий, чтобы цикл в данных не зациклил обход
func (t *Tree) nest(id string, depth int) *models.Category {
	c := *t.byID[id]
	c.SubCategories = nil
	if depth >= len(t.order) {
		return &c
	}
	for _, cid := range t.children[id] {
		c.SubCategories = append(c.SubCategories, t.nest(cid, depth+1))
	}
	return &c
}
