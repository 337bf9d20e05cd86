package models

import "time"

type Subscription struct {
	ID       int64    `json:"id"`
	UserID   *int64   `json:"user_id"`
	Name     string   `json:"name"`
	Price    string   `json:"price"`
	Color    string   `json:"color"`
	Features []string `json:"features"`
}

type NutritionEntry struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Ingredients     string `json:"ingredients"`
	PreparationTime int    `json:"preparation_time"`
	Calories        int    `json:"calories"`
	Category        string `json:"category"`
	GoalCategory    string `json:"goal_category"`
}

type NewsPost struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

type UploadedFile struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	Filepath   string    `json:"filepath"`
	UploadedBy *int64    `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}
