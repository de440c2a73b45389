package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/citylinker/backend/internal/domain/entities"
	"github.com/citylinker/backend/internal/domain/providers"
)

type seedPublication struct {
	category    string
	kind        entities.PublicationType
	title       string
	description string
	content     string
	price       string
	location    string
}

type seedBusiness struct {
	user         entities.User
	publications []seedPublication
}

var seedCategories = []entities.Category{
	{Name: "Restauration", Icon: "utensils", Description: strPtr("Restaurants, Malewa, Fast-food")},
	{Name: "Santé", Icon: "stethoscope", Description: strPtr("Cliniques, Pharmacies, Médecins")},
	{Name: "Éducation", Icon: "graduation", Description: strPtr("Écoles, Universités, Formations")},
	{Name: "Automobile", Icon: "car", Description: strPtr("Garages, Vente pièces, Lavage")},
	{Name: "Construction", Icon: "hammer", Description: strPtr("BTP, Quincailleries, Artisans")},
	{Name: "Mode & Beauté", Icon: "shirt", Description: strPtr("Boutiques, Salons de coiffure")},
	{Name: "Immobilier", Icon: "home", Description: strPtr("Agences, Ventes parcelles, Locations")},
	{Name: "Services Pro", Icon: "briefcase", Description: strPtr("Consulting, Bureaux, Impression")},
	{Name: "Voyage & Hôtels", Icon: "plane", Description: strPtr("Agences de voyage, Hôtels")},
	{Name: "Technologie", Icon: "sparkles", Description: strPtr("Vente téléphones, Réparation, Cyber")},
}

var seedBusinesses = []seedBusiness{
	{
		user: entities.User{
			Email:               "contact@techlushi.cd",
			FirstName:           "Michel",
			LastName:            "Kasongo",
			BusinessName:        strPtr("Lushi Tech Services"),
			BusinessDescription: strPtr("Maintenance informatique et vente de matériel au cœur de Lubumbashi."),
			BusinessAddress:     strPtr("Av. Kasa-Vubu, Centre-ville, Lubumbashi"),
			BusinessPhone:       strPtr("+243 99 00 00 000"),
		},
		publications: []seedPublication{
			{
				category:    "Technologie",
				kind:        entities.PublicationTypeService,
				title:       "Maintenance Informatique Entreprise",
				description: "Contrat de maintenance pour vos ordinateurs et réseaux. Intervention rapide partout à Lubumbashi.",
				content:     "Nous proposons des services complets : nettoyage virus, installation Windows, configuration réseau...",
				price:       "Sur devis",
				location:    "Lubumbashi, Gombe",
			},
			{
				category:    "Technologie",
				kind:        entities.PublicationTypeAnnouncement,
				title:       "Promo : Laptop HP Core i5",
				description: "Arrivage de PC portables venant d'Europe. Prix imbattable pour la rentrée !",
				price:       "350 $",
				location:    "Centre-ville, Lubumbashi",
			},
		},
	},
	{
		user: entities.User{
			Email:               "resto@simba.cd",
			FirstName:           "Sarah",
			LastName:            "Mwamba",
			BusinessName:        strPtr("Le Goût du Katanga"),
			BusinessDescription: strPtr("Cuisine locale authentique et grillades."),
			BusinessAddress:     strPtr("Route Kinsevera, Lubumbashi"),
			BusinessPhone:       strPtr("+243 81 00 00 000"),
		},
		publications: []seedPublication{
			{
				category:    "Restauration",
				kind:        entities.PublicationTypeAnnouncement,
				title:       "Buffet spécial dimanche",
				description: "Venez déguster notre buffet à volonté chaque dimanche. Poulet, Samoussa, Fumbwa...",
				price:       "25 000 FC",
				location:    "Lubumbashi, Golf",
			},
		},
	},
	{
		user: entities.User{
			Email:               "contact@hjclinique.cd",
			FirstName:           "Jean-Pierre",
			LastName:            "Ilunga",
			BusinessName:        strPtr("HJ Clinique Lubumbashi"),
			BusinessDescription: strPtr("Services de santé de qualité, consultations spécialisées et imagerie médicale."),
			BusinessAddress:     strPtr("7577, Avenue de la Révolution, Lubumbashi"),
			BusinessPhone:       strPtr("+243 81 211 8453"),
		},
		publications: []seedPublication{
			{
				category:    "Santé",
				kind:        entities.PublicationTypeService,
				title:       "Offre Check-up complet à 50$",
				description: "Profitez d'un bilan de santé complet incluant plusieurs examens pour seulement 50 USD. Offre spéciale !",
				price:       "50 $",
				location:    "Lubumbashi, Centre-ville",
			},
		},
	},
}

// SeedOptions controls the demo accounts created by Seed
type SeedOptions struct {
	AdminEmail       string
	AdminPassword    string
	BusinessPassword string
}

// DefaultSeedOptions returns the demo credentials
func DefaultSeedOptions() SeedOptions {
	return SeedOptions{
		AdminEmail:       "admin@citylinker.cd",
		AdminPassword:    "admin123",
		BusinessPassword: "business123",
	}
}

// SeedService fills an empty database with the category taxonomy and demo data
type SeedService struct {
	storage *Storage
	auth    *AuthService
	hasher  providers.PasswordHasher
}

// NewSeedService creates a new seed service
func NewSeedService(storage *Storage, auth *AuthService) *SeedService {
	return &SeedService{storage: storage, auth: auth, hasher: auth.hasher}
}

// Seed is idempotent: categories are only created on an empty taxonomy and
// accounts that already exist are left untouched.
func (s *SeedService) Seed(ctx context.Context, opts SeedOptions) error {
	categories, err := s.seedCategories(ctx)
	if err != nil {
		return err
	}

	admin, created, err := s.auth.EnsureAdmin(ctx, opts.AdminEmail, opts.AdminPassword, "Admin", "CityLinker")
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	log.Info().Str("email", admin.Email).Bool("created", created).Msg("Admin account ready")

	for _, business := range seedBusinesses {
		if err := s.seedBusiness(ctx, business, categories, opts.BusinessPassword); err != nil {
			return err
		}
	}
	return nil
}

func (s *SeedService) seedCategories(ctx context.Context) (map[string]int64, error) {
	existing, err := s.storage.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	byName := make(map[string]int64, len(seedCategories))
	for _, c := range existing {
		byName[c.Name] = c.ID
	}
	if len(existing) > 0 {
		log.Info().Int("count", len(existing)).Msg("Categories already exist, skipping")
		return byName, nil
	}

	for _, c := range seedCategories {
		category := c
		if _, err := s.storage.CreateCategory(ctx, &category); err != nil {
			return nil, fmt.Errorf("failed to create category %q: %w", c.Name, err)
		}
		byName[category.Name] = category.ID
	}
	log.Info().Int("count", len(seedCategories)).Msg("Categories created")
	return byName, nil
}

func (s *SeedService) seedBusiness(ctx context.Context, business seedBusiness, categories map[string]int64, password string) error {
	existing, err := s.storage.GetUserByEmail(ctx, business.user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		log.Info().Str("email", business.user.Email).Msg("Sample business already exists, skipping")
		return nil
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	user := business.user
	user.Password = hash
	user.Role = entities.RoleBusiness
	user.BusinessVerified = true
	if _, err := s.storage.CreateUser(ctx, &user); err != nil {
		return fmt.Errorf("failed to create business %q: %w", user.Email, err)
	}

	for _, p := range business.publications {
		categoryID, ok := categories[p.category]
		if !ok {
			log.Warn().Str("category", p.category).Msg("Unknown seed category, skipping publication")
			continue
		}
		_, err := s.storage.CreatePublication(ctx, &entities.Publication{
			UserID:      user.ID,
			CategoryID:  categoryID,
			Type:        p.kind,
			Title:       p.title,
			Description: p.description,
			Content:     optional(p.content),
			Price:       optional(p.price),
			Location:    optional(p.location),
			Status:      entities.StatusApproved,
		})
		if err != nil {
			return fmt.Errorf("failed to create publication %q: %w", p.title, err)
		}
	}
	log.Info().Str("email", user.Email).Int("publications", len(business.publications)).Msg("Sample business created")
	return nil
}

func strPtr(s string) *string {
	return &s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
