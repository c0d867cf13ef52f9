package services

import (
	"time"

	"github.com/Mariolucas03/Kairos/app/queries"
	"github.com/jmoiron/sqlx"
)

type Stores struct {
	Users     UserStore
	Missions  MissionStore
	DailyLogs DailyLogStore
	Nutrition NutritionStore
	Foods     FoodStore
	Shop      ShopStore
}

// PostgresStores binds every store to the sqlx query types.
func PostgresStores(db *sqlx.DB) Stores {
	return Stores{
		Users:     &queries.UserQueries{DB: db},
		Missions:  &queries.MissionsQueries{DB: db},
		DailyLogs: &queries.DailyLogQueries{DB: db},
		Nutrition: &queries.NutritionQueries{DB: db},
		Foods:     &queries.FoodQueries{DB: db},
		Shop:      &queries.ShopQueries{DB: db},
	}
}

type Options struct {
	Location *time.Location
	Now      func() time.Time
	Secret   string
	TokenTTL time.Duration
	Analyzer FoodAnalyzer
}

type Services struct {
	Auth        *AuthService
	Streak      *StreakService
	Levels      *LevelService
	Missions    *MissionService
	Daily       *DailyService
	Nutrition   *NutritionService
	Foods       *FoodService
	Shop        *ShopService
	Maintenance *MaintenanceService
}

func New(st Stores, opt Options) *Services {
	loc := opt.Location
	if loc == nil {
		loc = time.Local
	}
	levels := &LevelService{Users: st.Users}
	daily := &DailyService{Missions: st.Missions, Logs: st.DailyLogs, Nutrition: st.Nutrition, Loc: loc, Now: opt.Now}
	return &Services{
		Auth:   &AuthService{Users: st.Users, Secret: opt.Secret, TokenTTL: opt.TokenTTL, Now: opt.Now},
		Streak: &StreakService{Users: st.Users, Loc: loc, Now: opt.Now},
		Levels: levels,
		Missions: &MissionService{
			Missions: st.Missions,
			Users:    st.Users,
			Levels:   levels,
			Daily:    daily,
			Loc:      loc,
			Now:      opt.Now,
		},
		Daily:       daily,
		Nutrition:   &NutritionService{Logs: st.Nutrition, Daily: st.DailyLogs, Loc: loc, Now: opt.Now},
		Foods:       &FoodService{Foods: st.Foods, Analyzer: opt.Analyzer},
		Shop:        &ShopService{Shop: st.Shop, Users: st.Users},
		Maintenance: &MaintenanceService{Missions: st.Missions, Loc: loc, Now: opt.Now},
	}
}
