package model

type Book struct {
	ID                   int64  `json:"id" db:"id"`
	Title                string `json:"title" db:"title"`
	Author               string `json:"author" db:"author"`
	Publisher            string `json:"publisher" db:"publisher"`
	Genre                string `json:"genre" db:"genre"`
	IsbnNo               string `json:"isbnNo" db:"isbn_no"`
	NumOfPages           int    `json:"numOfPages" db:"num_of_pages"`
	TotalNumOfCopies     int    `json:"totalNumOfCopies" db:"total_num_of_copies"`
	AvailableNumOfCopies int    `json:"availableNumOfCopies" db:"available_num_of_copies"`
}

type BookCreateRequest struct {
	Title                string `json:"title" validate:"required,max=35"`
	Author               string `json:"author" validate:"required,max=35"`
	Publisher            string `json:"publisher" validate:"required,max=35"`
	Genre                string `json:"genre" validate:"required,max=35"`
	IsbnNo               string `json:"isbnNo" validate:"required,max=13"`
	NumOfPages           int    `json:"numOfPages" validate:"required,gte=1"`
	TotalNumOfCopies     int    `json:"totalNumOfCopies" validate:"gte=0"`
	AvailableNumOfCopies int    `json:"availableNumOfCopies" validate:"gte=0,ltefield=TotalNumOfCopies"`
}

// BookUpdateRequest carries only the fields to change. available <= total across
// partial updates is left to the books_copies_check constraint.
type BookUpdateRequest struct {
	Title                *string `json:"title" validate:"omitempty,min=1,max=35"`
	Author               *string `json:"author" validate:"omitempty,min=1,max=35"`
	Publisher            *string `json:"publisher" validate:"omitempty,min=1,max=35"`
	Genre                *string `json:"genre" validate:"omitempty,min=1,max=35"`
	IsbnNo               *string `json:"isbnNo" validate:"omitempty,min=1,max=13"`
	NumOfPages           *int    `json:"numOfPages" validate:"omitempty,gte=1"`
	TotalNumOfCopies     *int    `json:"totalNumOfCopies" validate:"omitempty,gte=0"`
	AvailableNumOfCopies *int    `json:"availableNumOfCopies" validate:"omitempty,gte=0"`
}
