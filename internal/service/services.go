package service

import (
	"labelhub/internal/auth"
	"labelhub/internal/entity"
	"labelhub/internal/model"
	"labelhub/internal/storage"
)

// Services bundles every service of the back office.
type Services struct {
	Auth      *AuthService
	Users     *UserService
	Roles     *RoleService
	Dashboard *DashboardService

	Artists   *ContentService[entity.Artist]
	Members   *MemberService
	Albums    *ContentService[entity.Album]
	Tracks    *ContentService[entity.Track]
	Singles   *ContentService[entity.Track]
	Events    *ContentService[entity.Event]
	News      *NewsService
	Offerings *ContentService[entity.Service]
	Staff     *ContentService[entity.StaffMember]
	Documents *ContentService[entity.Document]
}

// Options configure New.
type Options struct {
	Sessions      *auth.Manager
	Uploader      *storage.Uploader
	Paging        Paging
	PublicBaseURL string
}

// New wires the services onto repo.
func New(repo model.Repository, opts Options) *Services {
	stores := repo.Stores()
	artists := NewContentService(ArtistsModule, stores.Artists, opts.Uploader, opts.Paging)
	return &Services{
		Auth:      NewAuthService(repo, opts.Sessions),
		Users:     NewUserService(repo),
		Roles:     NewRoleService(repo),
		Dashboard: NewDashboardService(repo, opts.PublicBaseURL),

		Artists: artists,
		Members: NewMemberService(artists, NewContentService(MembersModule, stores.Members, opts.Uploader, opts.Paging)),
		Albums:  NewContentService(AlbumsModule, stores.Albums, opts.Uploader, opts.Paging),
		Tracks:  NewContentService(TracksModule, stores.Tracks, opts.Uploader, opts.Paging),
		Singles: NewContentService(SinglesModule, stores.Singles, opts.Uploader, opts.Paging).
			WithHooks(Hooks[entity.Track]{BeforeSave: func(t *entity.Track) { t.IsSingle = true }}),
		Events:    NewContentService(EventsModule, stores.Events, opts.Uploader, opts.Paging),
		News:      NewNewsService(NewContentService(NewsModule, stores.News, opts.Uploader, opts.Paging), repo),
		Offerings: NewContentService(ServicesModule, stores.Services, opts.Uploader, opts.Paging),
		Staff:     NewContentService(StaffModule, stores.Staff, opts.Uploader, opts.Paging),
		Documents: NewContentService(DocumentsModule, stores.Documents, opts.Uploader, opts.Paging),
	}
}
