package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"travelJournal/internal/auth"
	"travelJournal/internal/uploads"
	"travelJournal/models"
	"travelJournal/repository"
)

const (
	msgJourneyNotFound     = "Journey not found"
	msgJourneyForbidden    = "You do not have permission to view this journey"
	msgJourneyNotOwned     = "Journey not found or you do not have permission to add events"
	msgJourneyTitleMissing = "Title is required"
	msgJourneyAdded        = "Journey added successfully"
	msgEventFieldsMissing  = "Title, start time and location are required"
	msgEventAdded          = "Event added successfully"
	msgEventUpdated        = "Event updated successfully"
	msgEventDeleted        = "Event deleted successfully"
	msgEventNotOwned       = "Event not found or you do not have permission to edit it"
	msgEventDeleteNotOwned = "Event not found or you do not have permission to delete it"

	fieldEventImage = "event_image"
)

func (a *app) travellerHome(c echo.Context) error {
	journeys, err := a.Journeys.ListByUser(c.Request().Context(), auth.Current(c).UserID)
	if err != nil {
		return err
	}
	return a.render(c, http.StatusOK, "traveller_home", view{Title: "Traveller Home", Data: journeys})
}

func (a *app) journeyForm(c echo.Context) error {
	return a.render(c, http.StatusOK, "journey_form", view{Title: "New Journey"})
}

func (a *app) addJourney(c echo.Context) error {
	title := strings.TrimSpace(c.FormValue("title"))
	form := url.Values{
		"title":       {c.FormValue("title")},
		"description": {c.FormValue("description")},
		"start_date":  {c.FormValue("start_date")},
		"status":      {c.FormValue("status")},
	}
	if title == "" {
		addFlash(c, FlashDanger, msgJourneyTitleMissing)
		return a.render(c, http.StatusOK, "journey_form", view{Title: "New Journey", Form: form})
	}
	status := models.JourneyStatusPrivate
	if c.FormValue("status") == string(models.JourneyStatusPublic) {
		status = models.JourneyStatusPublic
	}
	j, err := a.Journeys.Create(c.Request().Context(), &models.Journey{
		UserID:      auth.Current(c).UserID,
		Title:       title,
		Description: strings.TrimSpace(c.FormValue("description")),
		StartDate:   c.FormValue("start_date"),
		Status:      status,
	})
	if err != nil {
		return err
	}
	addFlash(c, FlashSuccess, msgJourneyAdded)
	return a.redirect(c, RouteViewEvents, j.ID)
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Not Found")
	}
	return id, nil
}

// ownedJourney returns the journey when the session user owns it. Otherwise
// it flashes msg, redirects home and returns a nil journey.
func (a *app) ownedJourney(c echo.Context, msg string) (*models.Journey, error) {
	id, err := pathID(c, "journey_id")
	if err != nil {
		return nil, err
	}
	j, err := a.Journeys.GetByID(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}
	if j == nil || j.UserID != auth.Current(c).UserID {
		addFlash(c, FlashDanger, msg)
		return nil, a.redirectHome(c)
	}
	return j, nil
}

type eventsData struct {
	Journey *models.Journey
	Events  []models.Event
	Owner   bool
}

// viewEvents lists a journey's events in start order. Private journeys are
// shown only to their owner.
func (a *app) viewEvents(c echo.Context) error {
	id, err := pathID(c, "journey_id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	j, err := a.Journeys.GetByID(ctx, id)
	if err != nil {
		return err
	}
	s := auth.Current(c)
	if j == nil {
		addFlash(c, FlashDanger, msgJourneyNotFound)
		return a.redirectHome(c)
	}
	if !j.VisibleTo(s.UserID) {
		addFlash(c, FlashDanger, msgJourneyForbidden)
		return a.redirectHome(c)
	}
	events, err := a.Events.ListByJourney(ctx, j.ID)
	if err != nil {
		return err
	}
	return a.render(c, http.StatusOK, "events", view{
		Title: j.Title,
		Data:  eventsData{Journey: j, Events: events, Owner: j.UserID == s.UserID},
	})
}

type eventFormData struct {
	Journey *models.Journey
	Event   *models.Event
}

func (a *app) renderEventForm(c echo.Context, d eventFormData, form url.Values) error {
	title := "New Event"
	if d.Event != nil {
		title = "Edit Event"
		if form == nil {
			form = eventForm(d.Event)
		}
	}
	return a.render(c, http.StatusOK, "event_form", view{Title: title, Form: form, Data: d})
}

func eventForm(e *models.Event) url.Values {
	end := ""
	if e.EndTime != nil {
		end = *e.EndTime
	}
	return url.Values{
		"title":       {e.Title},
		"description": {e.Description},
		"start_time":  {e.StartTime},
		"end_time":    {end},
		"location":    {e.Location},
	}
}

// readEvent binds the event form. ok is false when a required field is missing.
func readEvent(c echo.Context) (ev models.Event, form url.Values, ok bool) {
	form = url.Values{}
	for _, k := range []string{"title", "description", "start_time", "end_time", "location"} {
		form.Set(k, c.FormValue(k))
	}
	ev = models.Event{
		Title:       form.Get("title"),
		Description: form.Get("description"),
		StartTime:   form.Get("start_time"),
		Location:    form.Get("location"),
	}
	if end := form.Get("end_time"); end != "" {
		ev.EndTime = &end
	}
	ok = ev.Title != "" && ev.StartTime != "" && ev.Location != ""
	return ev, form, ok
}

// saveEventImage stores an optional event image. It returns nil when no file
// was sent.
func (a *app) saveEventImage(c echo.Context) (*string, error) {
	fh, err := c.FormFile(fieldEventImage)
	if err != nil || fh.Filename == "" {
		return nil, nil
	}
	name, err := a.Uploads.Save(fh)
	if err != nil {
		return nil, err
	}
	return &name, nil
}

func (a *app) eventForm(c echo.Context) error {
	j, err := a.ownedJourney(c, msgJourneyNotOwned)
	if j == nil {
		return err
	}
	return a.renderEventForm(c, eventFormData{Journey: j}, nil)
}

func (a *app) addEvent(c echo.Context) error {
	j, err := a.ownedJourney(c, msgJourneyNotOwned)
	if j == nil {
		return err
	}
	ev, form, ok := readEvent(c)
	if !ok {
		addFlash(c, FlashDanger, msgEventFieldsMissing)
		return a.renderEventForm(c, eventFormData{Journey: j}, form)
	}
	img, err := a.saveEventImage(c)
	if errors.Is(err, uploads.ErrNotImage) {
		addFlash(c, FlashDanger, msgNotAnImage)
		return a.renderEventForm(c, eventFormData{Journey: j}, form)
	} else if err != nil {
		return err
	}
	ev.JourneyID = j.ID
	ev.EventImage = img
	if _, err := a.Events.Create(c.Request().Context(), &ev); err != nil {
		if img != nil {
			_ = a.Uploads.Remove(*img)
		}
		return err
	}
	addFlash(c, FlashSuccess, msgEventAdded)
	return a.redirect(c, RouteViewEvents, j.ID)
}

// ownedEvent loads an event of a journey the session user owns. Otherwise
// it flashes msg, redirects home and returns a nil event.
func (a *app) ownedEvent(c echo.Context, msg string) (*models.Event, error) {
	journeyID, err := pathID(c, "journey_id")
	if err != nil {
		return nil, err
	}
	eventID, err := pathID(c, "event_id")
	if err != nil {
		return nil, err
	}
	ev, err := a.Events.GetOwned(c.Request().Context(), journeyID, eventID, auth.Current(c).UserID)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		addFlash(c, FlashDanger, msg)
		return nil, a.redirectHome(c)
	}
	return ev, nil
}

func (a *app) editEventForm(c echo.Context) error {
	ev, err := a.ownedEvent(c, msgEventNotOwned)
	if ev == nil {
		return err
	}
	return a.renderEventForm(c, eventFormData{Event: ev}, nil)
}

// editEvent updates an owned event. A new image replaces the stored one.
func (a *app) editEvent(c echo.Context) error {
	cur, err := a.ownedEvent(c, msgEventNotOwned)
	if cur == nil {
		return err
	}
	ev, form, ok := readEvent(c)
	if !ok {
		addFlash(c, FlashDanger, msgEventFieldsMissing)
		return a.renderEventForm(c, eventFormData{Event: cur}, form)
	}
	img, err := a.saveEventImage(c)
	if errors.Is(err, uploads.ErrNotImage) {
		addFlash(c, FlashDanger, msgNotAnImage)
		return a.renderEventForm(c, eventFormData{Event: cur}, form)
	} else if err != nil {
		return err
	}

	ev.ID, ev.JourneyID = cur.ID, cur.JourneyID
	ev.EventImage = cur.EventImage
	if img != nil {
		ev.EventImage = img
	}
	if err := a.Events.Update(c.Request().Context(), &ev); err != nil {
		if img != nil {
			_ = a.Uploads.Remove(*img)
		}
		if errors.Is(err, repository.ErrNotFound) {
			addFlash(c, FlashDanger, msgEventNotOwned)
			return a.redirectHome(c)
		}
		return err
	}
	if img != nil && cur.EventImage != nil {
		if err := a.Uploads.Remove(*cur.EventImage); err != nil {
			a.Logger.Warn("remove old event image", "event_id", cur.ID, "error", err)
		}
	}
	addFlash(c, FlashSuccess, msgEventUpdated)
	return a.redirect(c, RouteViewEvents, cur.JourneyID)
}

func (a *app) deleteEvent(c echo.Context) error {
	journeyID, err := pathID(c, "journey_id")
	if err != nil {
		return err
	}
	eventID, err := pathID(c, "event_id")
	if err != nil {
		return err
	}
	ev, err := a.Events.Delete(c.Request().Context(), journeyID, eventID, auth.Current(c).UserID)
	if errors.Is(err, repository.ErrNotFound) {
		addFlash(c, FlashDanger, msgEventDeleteNotOwned)
		return a.redirectHome(c)
	} else if err != nil {
		return err
	}
	if ev.EventImage != nil {
		if err := a.Uploads.Remove(*ev.EventImage); err != nil {
			a.Logger.Warn("remove event image", "event_id", ev.ID, "error", err)
		}
	}
	addFlash(c, FlashSuccess, msgEventDeleted)
	return a.redirect(c, RouteViewEvents, journeyID)
}
