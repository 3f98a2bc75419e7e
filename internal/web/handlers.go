package web

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FathurrahmanNasution/portfolio/internal/analytics"
	"github.com/FathurrahmanNasution/portfolio/internal/content"
	"github.com/FathurrahmanNasution/portfolio/internal/scrollspy"
	"github.com/FathurrahmanNasution/portfolio/internal/section"
)

// scrollEvent is the HTMX event the client turns into scrollIntoView.
const scrollEvent = "scrollspy:scroll"

type navButton struct {
	ID     string
	Label  string
	Color  template.CSS
	Active bool
}

type navData struct {
	ViewID   string
	Name     string
	Items    []navButton
	MenuOpen bool
}

type pageData struct {
	Nav       navData
	ViewID    string
	Threshold float64
	Styles    map[string]template.CSS
	Portfolio *content.Portfolio
	Bio       template.HTML
}

type stateResponse struct {
	scrollspy.State
	Styles map[section.ID]scrollspy.StyleDescriptor `json:"styles"`
}

func (s *Server) newView() *scrollspy.View {
	v := scrollspy.NewView(uuid.NewString(), section.All(), scrollspy.Options{
		Threshold:    s.cfg.ScrollSpy.Threshold,
		FollowScroll: s.cfg.ScrollSpy.FollowScroll,
		Logger:       s.logger,
		OnNavigate: func(viewID string, id section.ID) {
			s.recordSectionEvent(viewID, id, analytics.EventNavigate)
		},
		OnReveal: func(viewID string, id section.ID) {
			s.recordSectionEvent(viewID, id, analytics.EventReveal)
		},
	})
	s.views.add(v)
	return v
}

func (s *Server) buildNav(viewID string, st scrollspy.State) navData {
	items := section.NavItems()
	buttons := make([]navButton, 0, len(items))
	for _, item := range items {
		buttons = append(buttons, navButton{
			ID:     string(item.ID),
			Label:  item.Label,
			Color:  template.CSS("color: " + scrollspy.NavColor(item.ID, st.ActiveSection)),
			Active: item.ID == st.ActiveSection,
		})
	}
	return navData{
		ViewID:   viewID,
		Name:     s.content.Load().Profile.Name,
		Items:    buttons,
		MenuOpen: st.MobileMenuOpen,
	}
}

func (s *Server) buildPage(viewID string, st scrollspy.State) (pageData, error) {
	p := s.content.Load()
	bio, err := p.BioHTML()
	if err != nil {
		return pageData{}, err
	}
	styles := make(map[string]template.CSS, len(section.All()))
	for _, id := range section.All() {
		styles[string(id)] = template.CSS(scrollspy.StyleFor(id, st.Visibility).CSS())
	}
	return pageData{
		Nav:       s.buildNav(viewID, st),
		ViewID:    viewID,
		Threshold: s.cfg.ScrollSpy.Threshold,
		Styles:    styles,
		Portfolio: p,
		Bio:       bio,
	}, nil
}

func (s *Server) handleIndex(c *gin.Context) {
	v := s.newView()
	data, err := s.buildPage(v.ID, v.Snapshot())
	if err != nil {
		s.logger.Error("rendering page", zap.Error(err))
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}
	c.HTML(http.StatusOK, "index.html", data)
}

// lookupView resolves the :id param, answering 404 with an HTMX refresh when
// the view is gone.
func (s *Server) lookupView(c *gin.Context) (*scrollspy.View, bool) {
	v, ok := s.views.get(c.Param("id"))
	if !ok {
		c.Header("HX-Refresh", "true")
		abortWithError(c, http.StatusNotFound, "VIEW_NOT_FOUND", errViewNotFound.Error())
		return nil, false
	}
	v.Touch(s.now())
	return v, true
}

func (s *Server) handleNavigate(c *gin.Context) {
	v, ok := s.lookupView(c)
	if !ok {
		return
	}

	intent, st, err := v.Navigate(section.ID(c.Param("section")))
	if err != nil {
		if errors.Is(err, scrollspy.ErrSectionNotFound) {
			abortWithError(c, http.StatusNotFound, "SECTION_NOT_FOUND", err.Error())
			return
		}
		s.logger.Error("navigate", zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}

	trigger, err := json.Marshal(map[string]scrollspy.ScrollIntent{scrollEvent: intent})
	if err == nil {
		c.Header("HX-Trigger", string(trigger))
	}
	c.HTML(http.StatusOK, "nav", s.buildNav(v.ID, st))
}

func (s *Server) handleToggleMenu(c *gin.Context) {
	v, ok := s.lookupView(c)
	if !ok {
		return
	}
	st := v.ToggleMobileMenu()
	c.HTML(http.StatusOK, "nav", s.buildNav(v.ID, st))
}

func (s *Server) handleState(c *gin.Context) {
	v, ok := s.lookupView(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newStateResponse(v.Snapshot(), v.Regions()))
}

func newStateResponse(st scrollspy.State, regions []section.ID) stateResponse {
	return stateResponse{State: st, Styles: scrollspy.Styles(regions, st.Visibility)}
}

var errViewNotFound = errors.New("view not found, reload the page")

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{
		"code":    code,
		"message": message,
	}})
}
