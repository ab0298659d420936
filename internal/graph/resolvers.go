package graph

import (
	"github.com/tablebell/restaurant-api/internal/dish"
	"github.com/tablebell/restaurant-api/internal/identity"
	"github.com/tablebell/restaurant-api/internal/restaurant"
)

func (s *Server) handleCreateAccount(r Request) (interface{}, error) {
	var in createAccountInput
	if err := decodeInput(r.Args, &in); err != nil {
		return envelope(r.Ctx, err), nil
	}
	_, err := s.accounts.CreateAccount(r.Ctx, identity.CreateAccountInput{
		Email:    in.Email,
		Password: in.Password,
		Role:     in.Role,
	})
	return envelope(r.Ctx, err), nil
}

func (s *Server) handleLogin(r Request) (interface{}, error) {
	var in loginInput
	if err := decodeInput(r.Args, &in); err != nil {
		return envelope(r.Ctx, err), nil
	}
	token, err := s.accounts.Login(r.Ctx, identity.LoginInput{Email: in.Email, Password: in.Password})
	res := envelope(r.Ctx, err)
	if err == nil {
		res["token"] = token
	}
	return res, nil
}

func (s *Server) handleSelf(r Request) (interface{}, error) {
	return r.Identity, nil
}

func (s *Server) handleUserProfile(r Request) (interface{}, error) {
	var in userProfileArgs
	if err := decodeArgs(r.Args, &in); err != nil {
		return envelope(r.Ctx, err), nil
	}
	u, err := s.accounts.GetUserByID(r.Ctx, in.ID)
	res := envelope(r.Ctx, err)
	if err == nil {
		res["user"] = u
	}
	return res, nil
}

func (s *Server) handleUpdateProfile(r Request) (interface{}, error) {
	var in updateProfileInput
	if err := decodeInput(r.Args, &in); err != nil {
		return envelope(r.Ctx, err), nil
	}
	err := s.accounts.UpdateProfile(r.Ctx, r.Identity, identity.UpdateProfileInput{
		Email:    in.Email,
		Password: in.Password,
	})
	return envelope(r.Ctx, err), nil
}

func (s *Server) handleSendCode(r Request) (interface{}, error) {
	return envelope(r.Ctx, s.verifications.SendCode(r.Ctx, r.Identity)), nil
}

func (s *Server) handleVerifyEmail(r Request) (interface{}, error) {
	var in verifyEmailInput
	if err := decodeInput(r.Args, &in); err != nil {
		return envelope(r.Ctx, err), nil
	}
	return envelope(r.Ctx, s.verifications.Verify(r.Ctx, r.Identity, in.Code)), nil
}

func (s *Server) handleAllCategories(r Request) (interface{}, error) {
	list, err := s.categories.List(r.Ctx)
	res := envelope(r.Ctx, err)
	if err == nil {
		res["categories"] = list
	}
	return res, nil
}

func (s *Server) handleCategory(r Request) (interface{}, error) {
	var in categoryInput
	if err := decodeInput(r.Args, &in); err != nil {
		return envelope(r.Ctx, err), nil
	}
	cp, err := s.categories.GetBySlug(r.Ctx, in.CategorySlug, in.Page)
	res := envelope(r.Ctx, err)
	if err == nil {
		res["category"] = cp.Category
		res["restaurants"] = cp.Restaurants
		res["totalPages"] = cp.TotalPages
	}
	return res, nil
}

func (s *Server) handleRestaurants(r Request) (interface{}, error) {
	var in pageInput
	if err := decodeInput(r.Args, &in); err != nil {
		return envelope(r.Ctx, err), nil
	}
	p, err := s.restaurants.List(r.Ctx, in.Page)
	return pageResult(r, p, err)
}

func (s *Server) handleSearchRestaurants(r Request) (interface{}, error) {
	var in searchInput
	if err := decodeInput(r.Args, &in); err != nil {
		return envelope(r.Ctx, err), nil
	}
	var q string
	if in.Query != nil {
		q = *in.Query
	}
	p, err := s.restaurants.Search(r.Ctx, q, in.Page)
	return pageResult(r, p, err)
}

func pageResult(r Request, p *restaurant.Page, err error) (interface{}, error) {
	res := envelope(r.Ctx, err)
	if err == nil {
		res["restaurants"] = p.Restaurants
		res["totalPages"] = p.TotalPages
	}
	return res, nil
}

func (s *Server) handleRestaurant(r Request) (interface{}, error) {
	var in idInput
	if err := decodeInput(r.Args, &in); err != nil {
		return envelope(r.Ctx, err), nil
	}
	rest, err := s.restaurants.Get(r.Ctx, in.ID)
	res := envelope(r.Ctx, err)
	if err == nil {
		res["restaurant"] = rest
	}
	return res, nil
}

func (s *Server) handleCreateRestaurant(r Request) (interface{}, error) {
	var in createRestaurantInput
	if err := decodeInput(r.Args, &in); err != nil {
		return envelope(r.Ctx, err), nil
	}
	_, err := s.restaurants.Create(r.Ctx, r.Identity, restaurant.CreateInput{
		Name:            in.Name,
		BackgroundImage: in.BackgroundImage,
		Address:         in.Address,
		CategoryName:    in.CategoryName,
	})
	return envelope(r.Ctx, err), nil
}

func (s *Server) handleUpdateRestaurant(r Request) (interface{}, error) {
	var in updateRestaurantInput
	if err := decodeInput(r.Args, &in); err != nil {
		return envelope(r.Ctx, err), nil
	}
	err := s.restaurants.Update(r.Ctx, r.Identity, restaurant.UpdateInput{
		ID:              in.ID,
		Name:            in.Name,
		BackgroundImage: in.BackgroundImage,
		Address:         in.Address,
		CategoryName:    in.CategoryName,
	})
	return envelope(r.Ctx, err), nil
}

func (s *Server) handleDeleteRestaurant(r Request) (interface{}, error) {
	var in idInput
	if err := decodeInput(r.Args, &in); err != nil {
		return envelope(r.Ctx, err), nil
	}
	return envelope(r.Ctx, s.restaurants.Delete(r.Ctx, r.Identity, in.ID)), nil
}

func (s *Server) handleCreateDish(r Request) (interface{}, error) {
	var in createDishInput
	if err := decodeInput(r.Args, &in); err != nil {
		return envelope(r.Ctx, err), nil
	}
	err := s.dishes.Create(r.Ctx, r.Identity, dish.CreateInput{
		RestaurantID: in.RestaurantID,
		Name:         in.Name,
		Price:        in.Price,
		Description:  in.Description,
		Image:        in.Image,
	})
	return envelope(r.Ctx, err), nil
}

func (s *Server) handleUpdateDish(r Request) (interface{}, error) {
	var in updateDishInput
	if err := decodeInput(r.Args, &in); err != nil {
		return envelope(r.Ctx, err), nil
	}
	err := s.dishes.Update(r.Ctx, r.Identity, dish.UpdateInput{
		ID:          in.ID,
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Image:       in.Image,
	})
	return envelope(r.Ctx, err), nil
}

func (s *Server) handleDeleteDish(r Request) (interface{}, error) {
	var in idInput
	if err := decodeInput(r.Args, &in); err != nil {
		return envelope(r.Ctx, err), nil
	}
	return envelope(r.Ctx, s.dishes.Delete(r.Ctx, r.Identity, in.ID)), nil
}
